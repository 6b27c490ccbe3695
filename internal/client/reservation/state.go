package reservation

// State состояние резервирования короткой ссылки.
type State int

const (
	Empty State = iota
	Invalid
	Checking
	Taken
	Available
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Invalid:
		return "invalid"
	case Checking:
		return "checking"
	case Taken:
		return "taken"
	case Available:
		return "available"
	default:
		return "unknown"
	}
}

// Warning текст предупреждения для пользователя, пустой для состояний без предупреждения.
func (s State) Warning() string {
	switch s {
	case Empty:
		return "Please enter a URL path"
	case Invalid:
		return "Only letters, numbers, hyphens, and underscores allowed"
	case Taken:
		return "This URL is already taken"
	default:
		return ""
	}
}
