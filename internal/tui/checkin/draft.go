// ABOUTME: The check-in draft accumulated across wizard steps
// ABOUTME: Tracks required and optional fields with set-based emotion tags

package checkin

import (
	"sort"

	"github.com/firefly-health/firefly-cli/internal/client"
)

// Draft accumulates check-in fields across wizard steps. Zero mood/energy
// means unset; both must be 1..10 before submission. Emotions is a set, so
// toggling a tag twice restores the original contents.
type Draft struct {
	Mood     int
	Energy   int
	Anxiety  int // optional, 0 = not provided
	Stress   int // optional, 0 = not provided
	Emotions map[string]struct{}
	Location string
	Activity string
	Social   string
	Journal  string
}

// NewDraft returns an empty draft
func NewDraft() Draft {
	return Draft{Emotions: make(map[string]struct{})}
}

// Toggle flips membership of an emotion tag
func (d *Draft) Toggle(tag string) {
	if _, ok := d.Emotions[tag]; ok {
		delete(d.Emotions, tag)
	} else {
		d.Emotions[tag] = struct{}{}
	}
}

// Tags returns the selected emotion tags in stable order
func (d *Draft) Tags() []string {
	tags := make([]string, 0, len(d.Emotions))
	for tag := range d.Emotions {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Valid reports whether the required fields are set
func (d *Draft) Valid() bool {
	return d.Mood >= 1 && d.Mood <= 10 &&
		d.Energy >= 1 && d.Energy <= 10 &&
		len(d.Emotions) > 0
}

// Request converts the draft into the create-checkin payload. Callers must
// not invoke this on an invalid draft; the wizard gates submission on Valid.
func (d *Draft) Request() client.CheckinCreate {
	req := client.CheckinCreate{
		MoodScore:       d.Mood,
		EnergyLevel:     d.Energy,
		EmotionTags:     d.Tags(),
		ContextLocation: d.Location,
		ContextActivity: d.Activity,
		ContextSocial:   d.Social,
		JournalText:     d.Journal,
	}
	if d.Anxiety > 0 {
		v := d.Anxiety
		req.AnxietyLevel = &v
	}
	if d.Stress > 0 {
		v := d.Stress
		req.StressLevel = &v
	}
	return req
}
