package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Handler formats a HostError for display on the host's stderr, used by
// the cmd/pluginhostd demo and by any embedder that wants a ready-made
// error renderer instead of inspecting HostError fields itself.
type Handler struct {
	Writer      io.Writer
	Verbose     bool
	NoColor     bool
	ShowContext bool
}

// DefaultHandler creates a handler with default settings.
func DefaultHandler() *Handler {
	return &Handler{
		Writer:      os.Stderr,
		Verbose:     false,
		NoColor:     false,
		ShowContext: false,
	}
}

// Handle processes and displays an error, returning the process exit code
// it implies.
func (h *Handler) Handle(err error) int {
	if err == nil {
		return 0
	}

	hostErr, ok := err.(*HostError)
	if !ok {
		h.displayGenericError(err)
		return 1
	}

	h.displayError(hostErr)

	if hostErr.HasSuggestions() {
		h.displaySuggestions(hostErr.Suggestions)
	}

	if h.Verbose && len(hostErr.Context) > 0 {
		h.displayContext(hostErr.Context)
	}

	if hostErr.Code > 0 {
		return hostErr.Code
	}
	return 1
}

func (h *Handler) displayError(err *HostError) {
	icon := h.getErrorIcon(err.Type)
	typeStr := h.getErrorTypeString(err.Type)

	var msg strings.Builder
	if h.NoColor {
		fmt.Fprintf(&msg, "%s %s: ", icon, typeStr)
	} else {
		fmt.Fprintf(&msg, "%s %s: ", icon, color.RedString(typeStr))
	}
	msg.WriteString(err.Message)

	fmt.Fprintln(h.Writer, msg.String())

	if h.Verbose && err.Err != nil {
		if h.NoColor {
			fmt.Fprintf(h.Writer, "  Underlying error: %v\n", err.Err)
		} else {
			fmt.Fprintf(h.Writer, "  %s: %v\n", color.HiBlackString("Underlying error"), err.Err)
		}
	}
}

func (h *Handler) displayGenericError(err error) {
	if h.NoColor {
		fmt.Fprintf(h.Writer, "x Error: %v\n", err)
	} else {
		fmt.Fprintf(h.Writer, "%s %s: %v\n", color.RedString("x"), color.RedString("Error"), err)
	}
}

func (h *Handler) displaySuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintln(h.Writer)
	if h.NoColor {
		fmt.Fprintln(h.Writer, "Possible solutions:")
	} else {
		fmt.Fprintln(h.Writer, color.YellowString("Possible solutions:"))
	}

	for _, suggestion := range suggestions {
		if h.NoColor {
			fmt.Fprintf(h.Writer, "  - %s\n", suggestion)
		} else {
			fmt.Fprintf(h.Writer, "  - %s\n", color.YellowString(suggestion))
		}
	}
}

func (h *Handler) displayContext(context map[string]string) {
	fmt.Fprintln(h.Writer)
	if h.NoColor {
		fmt.Fprintln(h.Writer, "Context:")
	} else {
		fmt.Fprintln(h.Writer, color.HiBlackString("Context:"))
	}

	for key, value := range context {
		if h.NoColor {
			fmt.Fprintf(h.Writer, "  %s: %s\n", key, value)
		} else {
			fmt.Fprintf(h.Writer, "  %s: %s\n", color.HiBlackString(key), value)
		}
	}
}

func (h *Handler) getErrorIcon(errType ErrorType) string {
	switch errType {
	case TypePermission:
		return "lock"
	case TypeFileNotFound:
		return "file"
	case TypeDependency:
		return "pkg"
	case TypeConfig:
		return "cfg"
	case TypeCompile:
		return "build"
	case TypeLoad:
		return "load"
	case TypeSymbol:
		return "sym"
	case TypeCallback:
		return "panic"
	case TypeRouter:
		return "cmd"
	default:
		return "x"
	}
}

func (h *Handler) getErrorTypeString(errType ErrorType) string {
	switch errType {
	case TypePermission:
		return "Permission Error"
	case TypeFileNotFound:
		return "File Not Found"
	case TypeDependency:
		return "Dependency Error"
	case TypeConfig:
		return "Configuration Error"
	case TypeCompile:
		return "Compile Error"
	case TypeLoad:
		return "Load Error"
	case TypeSymbol:
		return "Symbol Error"
	case TypeCallback:
		return "Callback Panic"
	case TypeRouter:
		return "Router Error"
	case TypeRuntime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// Print is a convenience function to handle an error with the default handler.
func Print(err error) int {
	return DefaultHandler().Handle(err)
}

// PrintVerbose handles an error with verbose output.
func PrintVerbose(err error) int {
	handler := DefaultHandler()
	handler.Verbose = true
	return handler.Handle(err)
}

// Exit handles an error and exits with the appropriate code.
func Exit(err error) {
	os.Exit(Print(err))
}

// ExitVerbose handles an error verbosely and exits.
func ExitVerbose(err error) {
	os.Exit(PrintVerbose(err))
}
