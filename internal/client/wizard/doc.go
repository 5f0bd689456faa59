// Package wizard implements the nine-step trip-creation flow.
//
// A Wizard holds the draft being edited, the current step and the highest
// step reached. Forward navigation is gated by the per-step required-field
// check; backward navigation and jumps to any visited step are free.
// Payload turns the draft into the body of the create request.
package wizard
