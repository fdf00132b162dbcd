// Package output provides color formatting for the plugin host CLI's
// stdout — used for the notify-stream echo and the cmd/pluginhostd demo's
// command output.
//
// Colors are enabled by default for TTY output and respect the standard
// NO_COLOR and TERM=dumb conventions:
//
//	cfg := output.InitColors()
//	fmt.Println(output.SuccessText("plugin %q loaded", name))
//	fmt.Println(output.ErrorText("plugin %q failed to load", name))
//
// GetIcon returns an ASCII fallback for non-unicode terminals (or when
// PLUGINS_ASCII_ICONS is set):
//
//	fmt.Println(output.GetIcon(output.IconSuccess), "done")
package output
