package domain

type ID string
type Version int

func (vo ID) String() string {
	return string(vo)
}

type Location string

func (vo Location) String() string {
	return string(vo)
}
