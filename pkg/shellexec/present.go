package shellexec

// Mood selects the visual treatment of a presented frame.
type Mood string

const (
	MoodInfo    Mood = "info"
	MoodSuccess Mood = "success"
	MoodError   Mood = "error"
	MoodWarning Mood = "warning"
)

// Presenter renders human-facing output on behalf of the runner. The
// runner decides what to show and when; implementations decide styling
// and destination.
type Presenter interface {
	// Frame displays content in a framed box with a title.
	Frame(content, title string, mood Mood)
	// PrintLine writes one plain line of output. An empty string prints
	// a blank separator line.
	PrintLine(text string)
}

type nopPresenter struct{}

func (nopPresenter) Frame(content, title string, mood Mood) {}
func (nopPresenter) PrintLine(text string)                  {}
