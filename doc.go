/*
Package carvers is a content aware image width reducer. It narrows an image by
repeatedly removing the vertical seam of lowest energy, so the uniform regions
shrink while the edges and details are kept.

The package provides a command line interface, supporting various flags for the
energy model, the protected regions and the debug output. To check the supported
commands type:

	$ carvers --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"log"
		"os"

		"github.com/esimov/carvers"
	)

	func main() {
		in, err := os.Open("input.jpg")
		if err != nil {
			log.Fatal(err)
		}
		defer in.Close()

		out, err := os.Create("output.png")
		if err != nil {
			log.Fatal(err)
		}
		defer out.Close()

		p := &carvers.Processor{
			Energy: carvers.DualGradient,
		}

		// Remove 20% of the image width.
		if _, err := p.Process(in, out, 20, "png"); err != nil {
			log.Fatalf("Error rescaling image: %s", err.Error())
		}
	}
*/
package carvers
