package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Sessions          map[string]*SessionStats
	Actions           map[string]*ActionStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for one group session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Model     string
	Group     string
	FramesOut int
	FramesIn  int
	LastState string
}

// ActionStats counts the outcomes of one action name.
type ActionStats struct {
	Started   int
	Rejected  int
	Completed int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Sessions:          make(map[string]*SessionStats),
		Actions:           make(map[string]*ActionStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.SessionID != "" {
		sess, ok := s.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			s.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}
		if sess.Model == "" {
			sess.Model = event.Model
		}
		if sess.Group == "" {
			sess.Group = event.Group
		}
		if event.Frame != nil {
			if event.Direction == log.DirectionOut {
				sess.FramesOut++
			} else {
				sess.FramesIn++
			}
		}
		if event.StateChange != nil && event.StateChange.Entity == log.StateEntityHandshake {
			sess.LastState = event.StateChange.NewState
		}
	}

	if a := event.Action; a != nil {
		as, ok := s.Actions[a.Name]
		if !ok {
			as = &ActionStats{}
			s.Actions[a.Name] = as
		}
		switch a.Outcome {
		case log.ActionStarted:
			as.Started++
		case log.ActionRejected:
			as.Rejected++
		case log.ActionCompleted:
			as.Completed++
		}
	}

	if event.Error != nil {
		s.Errors++
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Cube Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range layerNames {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %s %d\n", padLabel(layer.String()), count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryFrame, log.CategoryNotification, log.CategoryState, log.CategoryAction, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %s %d\n", padLabel(cat.String()), count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut, log.DirectionLocal} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %s %d\n", padLabel(dir.String()), count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Actions) > 0 {
		fmt.Fprintln(w, "Actions:")
		names := make([]string, 0, len(stats.Actions))
		for name := range stats.Actions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			a := stats.Actions[name]
			fmt.Fprintf(w, "  %s started=%d completed=%d rejected=%d\n", padLabel(name), a.Started, a.Completed, a.Rejected)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)
			if s.stats.Model != "" {
				fmt.Fprintf(w, "           Model: %s group %s\n", s.stats.Model, s.stats.Group)
			}
			fmt.Fprintf(w, "           Frames: %d out, %d in\n", s.stats.FramesOut, s.stats.FramesIn)
			if s.stats.LastState != "" {
				fmt.Fprintf(w, "           Last state: %s\n", s.stats.LastState)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
