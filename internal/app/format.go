package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// relativeTime renders a unix-millisecond timestamp as a compact
// "how long ago" label for list accessories.
func relativeTime(unixMilli int64) string {
	return relativeTimeAt(unixMilli, time.Now())
}

func relativeTimeAt(unixMilli int64, now time.Time) string {
	opened := time.UnixMilli(unixMilli)
	d := now.Sub(opened)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return opened.Format("Jan 2006")
	}
}

// collapseHome abbreviates the user's home directory to ~ in a path.
func collapseHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}
