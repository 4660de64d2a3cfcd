package primitive

import (
	"fmt"
	"io"
	"strings"
)

// Output receives terminal and log messages from primitives.
type Output interface {
	Print(text string)
}

// WriterOutput writes each message as a line to an io.Writer.
type WriterOutput struct {
	W io.Writer
}

// Print implements Output.
func (o WriterOutput) Print(text string) {
	fmt.Fprintln(o.W, text)
}

// Discard drops every message.
var Discard Output = discard{}

type discard struct{}

func (discard) Print(string) {}

// Typesetter receives the characters the dispatcher does not interpret.
type Typesetter interface {
	Add(material string) error
}

// Collector is a Typesetter that concatenates its material.
type Collector struct {
	b strings.Builder
}

// Add implements Typesetter.
func (c *Collector) Add(material string) error {
	c.b.WriteString(material)
	return nil
}

// String returns the collected material.
func (c *Collector) String() string {
	return c.b.String()
}

// Reset discards the collected material.
func (c *Collector) Reset() {
	c.b.Reset()
}
