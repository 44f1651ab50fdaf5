package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/adibhanna/focusmeter/internal/attention"
	"github.com/adibhanna/focusmeter/internal/collector"
	"github.com/adibhanna/focusmeter/internal/config"
	"github.com/adibhanna/focusmeter/internal/models"
	"github.com/adibhanna/focusmeter/internal/reporter"
	"github.com/adibhanna/focusmeter/internal/ui/goal"
	"github.com/adibhanna/focusmeter/internal/ui/help"
	"github.com/adibhanna/focusmeter/internal/ui/report"
	"github.com/adibhanna/focusmeter/internal/ui/session"
)

func runApp(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := collector.New(cfg.API)

	// Main app loop
	for {
		sess, ok, err := runGoal(ctx, client, cfg)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(">>> See you next session!")
			return nil
		}

		finished, err := runSession(ctx, client, cfg, sess)
		if err != nil {
			return err
		}
		if !finished {
			fmt.Println("[!] Session aborted, no final report was sent.")
			return nil
		}

		again, err := runReport(ctx, client, sess)
		if err != nil {
			return err
		}
		if !again {
			fmt.Println(">>> See you next session!")
			return nil
		}
	}
}

// runGoal shows the goal form, detouring through the help screen as often
// as asked. The bool is false when the user quit without starting a session.
func runGoal(ctx context.Context, client *collector.Client, cfg *config.Config) (models.Session, bool, error) {
	goalModel := goal.New(ctx, client)

	for {
		p := tea.NewProgram(goalModel, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return models.Session{}, false, errors.Wrap(err, "run goal form")
		}
		goalModel = finalModel.(goal.Model)

		if !goalModel.ShouldShowHelp() {
			return goalModel.Session(), goalModel.Created(), nil
		}

		p = tea.NewProgram(help.New(cfg.Tracker), tea.WithAltScreen())
		helpModel, err := p.Run()
		if err != nil {
			return models.Session{}, false, errors.Wrap(err, "run help")
		}
		if helpModel.(help.Model).ShouldQuit() {
			return models.Session{}, false, nil
		}
		goalModel = goalModel.Resume()
	}
}

// runSession runs the active view. The reporter is stopped on every exit
// path, including an abort or a program error.
func runSession(ctx context.Context, client *collector.Client, cfg *config.Config, sess models.Session) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := attention.NewTracker(sess.ID, sess.PlannedDurationSeconds, cfg.Tracker, time.Now())
	rep := reporter.New(client, tracker, cfg.Tracker.ReportInterval)
	defer rep.Stop()

	model := session.New(ctx, sess, tracker, rep, cfg.Tracker)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	finalModel, err := p.Run()
	if err != nil {
		return false, errors.Wrap(err, "run session")
	}

	return finalModel.(session.Model).Finished(), nil
}

func runReport(ctx context.Context, client *collector.Client, sess models.Session) (bool, error) {
	p := tea.NewProgram(report.New(ctx, client, sess), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, errors.Wrap(err, "run report")
	}
	return finalModel.(report.Model).ShouldStartNew(), nil
}
