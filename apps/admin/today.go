package main

import (
	"github.com/spf13/cobra"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/challenge"
)

func (cli *commandLine) todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's daily problem and this week's USACO pick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := cli.challengeSvc.Today()
			if err != nil {
				return err
			}
			cli.printToday(snap)
			return nil
		},
	}
}

func (cli *commandLine) printToday(snap challenge.Snapshot) {
	if snap.SchoolDay == 0 {
		cli.printf("%s: school has not started yet\n", snap.Date)
		return
	}
	cli.printf("%s: school day %d, week %d\n", snap.Date, snap.SchoolDay, snap.Week)
	if snap.Daily != nil {
		cli.printf("daily:  %s (%s) %s\n", snap.Daily.Title, snap.Daily.Difficulty, snap.Daily.URL)
	}
	if w := snap.Weekly; w != nil {
		cli.printf("weekly: %s, problem %d: %s %s\n", w.Contest, w.ProblemIndex+1, w.Problem.Title, w.Problem.URL)
	}
}
