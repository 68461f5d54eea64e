// Package greeting formats the greeting returned by the "greet" command.
package greeting

import "fmt"

// Template is the fixed greeting; %s is replaced by the name verbatim.
const Template = "Hello, %s! You've been greeted from Go!"

// Greet returns Template populated with name.
func Greet(name string) string {
	return fmt.Sprintf(Template, name)
}
