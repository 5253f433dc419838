package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/ntccal/pkg/client"
	"github.com/charlie0129/ntccal/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print daemon events as they happen",
		GroupID: gAdvanced,
		Long: `Print daemon events as they happen, until interrupted.

This needs a running daemon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if localMode {
				return fmt.Errorf("watch needs the daemon and cannot run with --local")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ch, err := client.NewClient(unixSocketPath).SubscribeEvents(ctx)
			if err != nil {
				return err
			}
			logrus.Infof("watching events from %s", unixSocketPath)

			for ev := range ch {
				cmd.Println(formatEvent(ev))
			}
			return nil
		},
	}
}

func formatEvent(ev events.Event) string {
	ts := time.Now().Format(time.TimeOnly)

	switch ev.Name {
	case events.CalibrationUpdated:
		p, err := events.DecodeAs[events.CalibrationUpdatedEvent](ev)
		if err != nil {
			break
		}
		msg := fmt.Sprintf("%s %s %s steinhart-hart %s beta %s", ts, color.GreenString(ev.Name), p.ID, bool2Text(p.SteinhartHartOK), bool2Text(p.BetaOK))
		if p.SteinhartHartErr != "" {
			msg += "\n  steinhart-hart: " + p.SteinhartHartErr
		}
		if p.BetaErr != "" {
			msg += "\n  beta: " + p.BetaErr
		}
		return msg
	case events.CalibrationInvalidated:
		p, err := events.DecodeAs[events.CalibrationInvalidatedEvent](ev)
		if err != nil {
			break
		}
		return fmt.Sprintf("%s %s (%s)", ts, color.YellowString(ev.Name), p.Reason)
	case events.ObservationsChanged:
		p, err := events.DecodeAs[events.ObservationsChangedEvent](ev)
		if err != nil {
			break
		}
		return fmt.Sprintf("%s %s %d observations", ts, color.CyanString(ev.Name), p.Count)
	}

	return fmt.Sprintf("%s %s %s", ts, ev.Name, string(ev.Data))
}
