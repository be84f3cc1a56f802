// Package fixture holds views compiled by livedomc. Its tests check that
// the checked-in generated code is current and builds the same DOM as the
// runtime interpreter for the same data.
package fixture

//go:generate go run ../../cmd/livedomc gen .

// Item is one entry of the todo list view
type Item struct {
	Text string
	Done bool
}
