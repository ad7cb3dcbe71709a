package mediator

// Unit is the response type for requests that perform an action without
// returning data. All Unit values compare equal, so it is usable as a map
// key, and handlers returning it simply return Unit{}.
type Unit struct{}

// String returns the literal "()".
func (Unit) String() string {
	return "()"
}
