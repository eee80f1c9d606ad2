package additive

import "fmt"

const (
	TakesRequired = 3

	TakesTitle   = "Incorrect amount of takes"
	TakesMessage = "Please create 3 takes in this order: additive anim, substraction anim, result take"
)

// PreconditionError is returned when the host does not have exactly three takes.
type PreconditionError struct {
	Takes int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("need %d takes (base, subtract, result), host has %d", TakesRequired, e.Takes)
}

// StructuralMismatchError is returned when base and subtract samples differ in length.
type StructuralMismatchError struct {
	Base     int
	Subtract int
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("base take sampled %d transforms, subtract take sampled %d", e.Base, e.Subtract)
}
