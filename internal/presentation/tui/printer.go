package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes human-facing command output.
// Colors are only used when the destination is a terminal.
type Printer struct {
	w       io.Writer
	profile termenv.Profile
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.EnvColorProfile()
	}
	return &Printer{w: w, profile: profile}
}

func (p *Printer) accent(s string) termenv.Style {
	return p.profile.String(s).Foreground(p.profile.Color("#a78bfa")).Bold()
}

func (p *Printer) ok(s string) termenv.Style {
	return p.profile.String(s).Foreground(p.profile.Color("#34d399"))
}

func (p *Printer) faint(s string) termenv.Style {
	return p.profile.String(s).Faint()
}

// FollowUpCommand is what a user runs to turn the archive into an image.
func FollowUpCommand(archivePath string) string {
	return fmt.Sprintf("unzip %s -d minimal-service && cd minimal-service && docker build -t music-box-realtime .", archivePath)
}

// Created reports a finished archive and the command to build it.
func (p *Printer) Created(res *domain.ArchiveResult) {
	fmt.Fprintf(p.w, "%s %s\n", p.ok("Created"), p.accent(res.Path))
	fmt.Fprintf(p.w, "Run: '%s'\n", FollowUpCommand(res.Path))
}

// Entries lists archive entries with their sizes.
func (p *Printer) Entries(files []domain.TemplateFile) {
	for _, f := range files {
		fmt.Fprintf(p.w, "  %-16s %s\n", f.Name, p.faint(fmt.Sprintf("%d bytes", len(f.Content))))
	}
}

// Verified reports a successful archive check.
func (p *Printer) Verified(path string) {
	fmt.Fprintf(p.w, "%s %s matches the template set\n", p.ok("OK"), path)
}

// Sessions lists presence records.
func (p *Printer) Sessions(sessions []domain.ClientSession, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(p.w, p.faint("no active sessions"))
		return
	}
	for _, s := range sessions {
		age := now.Sub(s.ConnectedAt).Truncate(time.Second)
		fmt.Fprintf(p.w, "%s  %-21s %s\n", p.accent(s.ID), s.RemoteAddr, p.faint(age.String()))
	}
}

// Banner prints the service name and version.
func (p *Printer) Banner(version string) {
	fmt.Fprintf(p.w, "%s %s\n", p.accent("♪ Music Box Realtime"), p.faint(version))
}
