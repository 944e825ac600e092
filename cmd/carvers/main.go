package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/esimov/carvers"
	"github.com/esimov/carvers/config"
	"github.com/esimov/carvers/utils"
)

const HelpBanner = `
┌─┐┌─┐┬─┐┬  ┬┌─┐┬─┐┌─┐
│  ├─┤├┬┘└┐┌┘├┤ ├┬┘└─┐
└─┘┴ ┴┴└─ └┘ └─┘┴└─└─┘

Seam carving image width reducer.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", pipeName, "Destination image or directory")
	percentage  = flag.Uint("perc", 0, "Percentage of the width to remove (0-100)")
	energyModel = flag.String("energy", string(carvers.Sobel), "Energy model: sobel, dual or lab")
	edgeWrap    = flag.Bool("wrap", false, "Wrap around the image borders in the gradient energy models")
	blurSigma   = flag.Float64("blur", 0, "Gaussian blur applied before the Sobel operator")
	maskPath    = flag.String("mask", "", "Mask image marking the regions to protect")
	faceDetect  = flag.Bool("face", false, "Protect the detected faces")
	cascade     = flag.String("cc", "", "Cascade classifier")
	faceAngle   = flag.Float64("angle", 0.0, "Plane rotated faces angle")
	debug       = flag.Bool("debug", false, "Save an image showing the removed seams")
	seamColor   = flag.String("color", carvers.DefaultSeamColor, "Seam color in debug mode")
	seamBlend   = flag.String("blend", "", "Blend mode of the seams in debug mode (multiply, screen, overlay...)")
	seamComp    = flag.String("comp", "", "Composite operation of the seams in debug mode (src_over, xor...)")
	concurrency = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	workers     = flag.Int("workers", runtime.NumCPU(), "Number of goroutines computing the energy map")
	configPath  = flag.String("config", "", "YAML configuration file")
	logLevel    = flag.String("log", zerolog.InfoLevel.String(), "Log level")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			utils.DecorateText("Error resizing the image:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	overrideConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(cfg.Level()).With().Timestamp().Logger()

	proc := &carvers.Processor{Logger: &logger}
	if err := cfg.Apply(proc); err != nil {
		return err
	}

	if cfg.Protect.Face {
		fd, err := carvers.LoadFaceDetector(cfg.Protect.Classifier)
		if err != nil {
			return err
		}
		proc.FaceDetector = fd
	}

	op := &carvers.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Fraction: cfg.Reduce,
		Workers:  cfg.Output.Concurrency,
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		spinnerText := fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ CARVERS", utils.StatusMessage),
			utils.DecorateText("is carving the image...", utils.DefaultMessage))
		op.Spinner = utils.NewSpinner(spinnerText, time.Millisecond*200, true)
		op.Spinner.StopMsg = fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ CARVERS", utils.StatusMessage),
			utils.DecorateText("is carving the image... ✔\n", utils.DefaultMessage))
	}

	return proc.Execute(op)
}

// overrideConfig copies the explicitly set flags over the configuration,
// so the command line always wins over the config file.
func overrideConfig(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "perc":
			cfg.Reduce = *percentage
		case "energy":
			cfg.Energy.Model = *energyModel
		case "wrap":
			cfg.Energy.Wrap = *edgeWrap
		case "blur":
			cfg.Energy.Blur = *blurSigma
		case "workers":
			cfg.Energy.Workers = *workers
		case "mask":
			cfg.Protect.Mask = *maskPath
		case "face":
			cfg.Protect.Face = *faceDetect
		case "cc":
			cfg.Protect.Classifier = *cascade
		case "angle":
			cfg.Protect.Angle = *faceAngle
		case "debug":
			cfg.Output.Debug = *debug
		case "color":
			cfg.Output.SeamColor = *seamColor
		case "blend":
			cfg.Output.Blend = *seamBlend
		case "comp":
			cfg.Output.Composite = *seamComp
		case "conc":
			cfg.Output.Concurrency = *concurrency
		case "log":
			cfg.Output.LogLevel = *logLevel
		}
	})
}
