package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer is the lipgloss renderer bound to stdout. The color profile
// honors NO_COLOR and CLICOLOR_FORCE.
var Renderer = newRenderer()

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())
	return r
}

// Predefined styles for consistent CLI output.
var (
	Green = Renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	Cyan  = Renderer.NewStyle().Foreground(lipgloss.Color("14"))
	Red   = Renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Dim   = Renderer.NewStyle().Foreground(lipgloss.Color("245"))
)

func printDone(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Green.Render("✓"), fmt.Sprintf(format, args...))
}

func printStep(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Cyan.Render("→"), fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", Dim.Render(label+":"), value)
}
