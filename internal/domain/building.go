package domain

// Building is an entry in the campus building directory. The directory is the
// reference set the location codec matches decoded building names against.
type Building struct {
	ID   int64
	Name string
}
