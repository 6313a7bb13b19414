// Package timeslot lists the half-hour appointment times offered in the
// schedule pickers, grouped by period of the day.
package timeslot

import "fmt"

// Group is the period of the day a time option is displayed under.
type Group string

const (
	Morning   Group = "Morning"
	Afternoon Group = "Afternoon"
	Evening   Group = "Evening"
)

const (
	firstHour   = 5
	lastHour    = 23
	stepMinutes = 30
)

// Groups lists the display groups in the order they appear during the day.
var Groups = []Group{Morning, Afternoon, Evening}

// Option is a selectable appointment time.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Group Group  `json:"group"`
}

// GroupedOptions holds the options belonging to a single group.
type GroupedOptions struct {
	Group   Group    `json:"group"`
	Options []Option `json:"options"`
}

// Generate returns every half hour between 05:00 and 23:30 in ascending order.
func Generate() []Option {
	options := make([]Option, 0, (lastHour-firstHour+1)*(60/stepMinutes))
	for hour := firstHour; hour <= lastHour; hour++ {
		for minute := 0; minute < 60; minute += stepMinutes {
			label := fmt.Sprintf("%02d:%02d", hour, minute)
			options = append(options, Option{
				Label: label,
				Value: label + ":00",
				Group: GroupOf(hour),
			})
		}
	}
	return options
}

// GroupOf returns the group an hour of the day belongs to.
func GroupOf(hour int) Group {
	switch {
	case hour < 13:
		return Morning
	case hour < 19:
		return Afternoon
	default:
		return Evening
	}
}

// Partition splits options by group, keeping the input order inside each group.
// Groups with no options are omitted.
func Partition(options []Option) []GroupedOptions {
	byGroup := make(map[Group][]Option, len(Groups))
	for _, opt := range options {
		byGroup[opt.Group] = append(byGroup[opt.Group], opt)
	}

	grouped := make([]GroupedOptions, 0, len(Groups))
	for _, g := range Groups {
		if opts, ok := byGroup[g]; ok {
			grouped = append(grouped, GroupedOptions{Group: g, Options: opts})
		}
	}
	return grouped
}
