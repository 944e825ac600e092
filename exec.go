package carvers

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/esimov/carvers/utils"
)

// maxWorkers sets the maximum number of concurrently processed files.
const maxWorkers = 20

// inputExtensions lists the file types picked up when the source is a directory.
var inputExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// Ops describes a batch of files to carve.
type Ops struct {
	Src, Dst, PipeName string
	// Fraction is the percentage of the width to remove.
	Fraction uint
	// Workers is the number of files processed concurrently when Src is a directory.
	Workers int
	Spinner *utils.Spinner
}

// result holds the relevant information about the resizing process of one file.
type result struct {
	path string
	err  error
}

// Execute carves the source (a file, a directory, an URL or the pipe name)
// into the destination. Directories are processed concurrently, one file per
// worker. It returns the first error encountered.
func (p *Processor) Execute(op *Ops) error {
	logger := p.log()
	src := op.Src

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if err != nil {
			return errors.Wrap(err, "failed to load the source image")
		}
		f.Close()
		defer os.Remove(f.Name())
		src = f.Name()
	}

	var (
		fs  os.FileInfo
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return errors.Wrap(err, "failed to load the source image")
	}

	if op.Spinner != nil {
		op.Spinner.Start()
		defer op.Spinner.Stop()

		// Capture CTRL-C signal and restore the cursor visibility.
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
		done := make(chan struct{})
		defer func() {
			signal.Stop(signalChan)
			close(done)
		}()
		go func() {
			select {
			case <-signalChan:
				op.Spinner.RestoreCursor()
				os.Exit(1)
			case <-done:
			}
		}()
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		err = op.processDir(p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || src == op.PipeName:
		ext := filepath.Ext(op.Dst)
		if op.Dst != op.PipeName && !isValidExtension(ext, SupportedExtensions) {
			return errors.Errorf("%v file type not supported", ext)
		}
		err = op.process(p, src, op.Dst)
		if op.Spinner != nil {
			op.Spinner.Stop()
		}
		if err == nil && op.Dst != op.PipeName {
			logger.Info().Str("path", op.Dst).Msg("the image has been saved")
		}
	default:
		return errors.Errorf("unsupported source %q", op.Src)
	}
	if err != nil {
		return err
	}

	logger.Info().Str("elapsed", utils.FormatTime(time.Since(now))).Msg("execution finished")
	return nil
}

// processDir carves every supported image found under dir into op.Dst.
func (op *Ops) processDir(p *Processor, dir string) error {
	logger := p.log()
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return errors.Wrap(err, "unable to create the destination directory")
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = utils.Min(runtime.NumCPU(), maxWorkers)
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, dir, inputExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(p, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var firstErr error
	for res := range ch {
		if res.err != nil {
			logger.Error().Err(res.err).Str("path", res.path).Msg("resizing image failed")
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		logger.Info().Str("path", res.path).Msg("the image has been saved")
	}

	if err := <-errc; err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// consumer reads the path names from the paths channel and carves each file
// into the destination directory.
func (op *Ops) consumer(
	p *Processor,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		dst := destinationPath(op.Dst, src)
		err := op.process(p, src, dst)

		select {
		case <-done:
			return
		case res <- result{
			path: dst,
			err:  err,
		}:
		}
	}
}

// destinationPath places src into dir, switching to png when the source
// format cannot be encoded.
func destinationPath(dir, src string) string {
	name := filepath.Base(src)
	if ext := filepath.Ext(name); !isValidExtension(strings.ToLower(ext), SupportedExtensions) {
		name = strings.TrimSuffix(name, ext) + ".png"
	}
	return filepath.Join(dir, name)
}

// process carves a single image and writes the seam overlay next to the
// output when running in debug mode.
func (op *Ops) process(p *Processor, in, out string) error {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}
	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
	}()

	var format string
	if out != op.PipeName {
		format = FormatOf(out)
	}

	res, err := p.Process(src, dst, op.Fraction, format)
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			// remove the generated image file in case of an error
			os.Remove(f.Name())
		}
	}
	if err != nil {
		return err
	}

	if res.Clipped {
		p.log().Warn().
			Str("path", in).
			Int("requested", res.Requested).
			Int("removed", res.Removed).
			Msg("the reduction was clipped")
	}

	if res.Overlay != nil && out != op.PipeName {
		return writeOverlay(out, res)
	}
	return nil
}

// writeOverlay saves the seam overlay as <name>_seams.png next to out.
func writeOverlay(out string, res *Result) error {
	name := strings.TrimSuffix(out, filepath.Ext(out)) + "_seams.png"
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "unable to create the debug image")
	}
	defer f.Close()
	return Encode(f, res.Overlay, "png")
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(strings.ToLower(filepath.Ext(f.Name())), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	return utils.Contains(extensions, strings.ToLower(ext))
}
