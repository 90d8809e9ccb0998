// Package prompt runs short interactive question forms in the terminal.
//
// A form is a fixed sequence of [Question]s answered one at a time with a
// bubbletea text input. Text, yes/no and pick-one questions are supported;
// an empty answer takes the question's default. Esc or Ctrl-C abandons the
// form with [ErrCanceled].
package prompt
