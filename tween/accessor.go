package tween

// Accessor reads and writes named properties of a target.
type Accessor[T any] interface {
	Get(target T, property string) any
	Set(target T, property string, value any)
}

// AccessorFuncs adapts a getter and setter pair to Accessor.
type AccessorFuncs[T any] struct {
	GetFunc func(target T, property string) any
	SetFunc func(target T, property string, value any)
}

func (a AccessorFuncs[T]) Get(target T, property string) any {
	if a.GetFunc == nil {
		return nil
	}
	return a.GetFunc(target, property)
}

func (a AccessorFuncs[T]) Set(target T, property string, value any) {
	if a.SetFunc != nil {
		a.SetFunc(target, property, value)
	}
}

// Properties is implemented by targets that expose their animatable
// properties by name.
type Properties interface {
	Property(name string) any
	SetProperty(name string, value any)
}

// MapAccessor reads and writes the entries of a map[string]any target.
type MapAccessor struct{}

func (MapAccessor) Get(target map[string]any, property string) any {
	return target[property]
}

func (MapAccessor) Set(target map[string]any, property string, value any) {
	target[property] = value
}

// propertiesAccessor is the default accessor: plain reads and writes by name
// on map[string]any or Properties targets. Other targets read as nil and
// ignore writes.
type propertiesAccessor[T any] struct{}

func (propertiesAccessor[T]) Get(target T, property string) any {
	switch t := any(target).(type) {
	case map[string]any:
		return t[property]
	case Properties:
		return t.Property(property)
	}
	return nil
}

func (propertiesAccessor[T]) Set(target T, property string, value any) {
	switch t := any(target).(type) {
	case map[string]any:
		t[property] = value
	case Properties:
		t.SetProperty(property, value)
	}
}

// DefaultAccessor returns the accessor used when AnimatorOptions leaves
// Accessor nil.
func DefaultAccessor[T any]() Accessor[T] {
	return propertiesAccessor[T]{}
}
