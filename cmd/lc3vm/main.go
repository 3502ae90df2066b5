package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/davecgh/go-spew/spew"

	"lc3vm/internal/console"
	"lc3vm/internal/lc3"
)

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Printf("%s [image-file1] ...\n", os.Args[0])
		os.Exit(2)
	}

	// load images before touching terminal state, so a startup failure
	// needs no restoration
	mem := lc3.NewMemory()
	for _, path := range flag.Args() {
		printIfVerbose(*verbose, "Loading image %s...", path)
		if err := lc3.ReadImage(mem, path); err != nil {
			fmt.Printf("Failed to load image: %s\n", path)
			os.Exit(1)
		}
	}

	cons, err := console.Open()
	if err != nil {
		log.Fatalf("Failed to set up terminal: %v", err)
	}

	mem.AttachKeyboard(cons)
	cpu := lc3.NewCPU(mem, cons, os.Stdout)

	// Ctrl+C arrives as a signal in cooked mode and as a key event in
	// raw mode; both funnel into the same shutdown path
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	printIfVerbose(*verbose, "Running CPU...")

	done := make(chan error, 1)
	go func() {
		done <- cpu.Run()
	}()

	select {
	case <-sigCh:
		interrupted(cons)
	case <-cons.Interrupt():
		interrupted(cons)
	case err := <-done:
		cons.Restore()
		if err != nil {
			fmt.Fprint(os.Stderr, spew.Sdump(cpu.Reg))
			log.Fatalf("Machine fault: %v", err)
		}
	}

	printIfVerbose(*verbose, "CPU stopped.")
}

// interrupted restores the terminal and exits the way the shell
// expects from a killed emulator: a fresh line and a non-zero status.
func interrupted(cons *console.Console) {
	cons.Restore()
	fmt.Println()
	os.Exit(254)
}

// printIfVerbose prints a formatted message if verbose is true.
func printIfVerbose(verbose bool, format string, v ...interface{}) {
	if verbose {
		log.Printf(format, v...)
	}
}
