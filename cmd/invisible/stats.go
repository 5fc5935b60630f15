package main

import (
	"github.com/urfave/cli/v2"
)

var stats = cli.Command{
	Name:   "stats",
	Usage:  "get the number of commitments by status",
	Action: statsAction,
}

var userstats = cli.Command{
	Name:  "userstats",
	Usage: "get the number of commitments sent and received by an address",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address of the participant",
			Required: true,
		},
	},
	Action: userStatsAction,
}

func statsAction(ctx *cli.Context) error {
	resp, err := get("/api/stats")
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func userStatsAction(ctx *cli.Context) error {
	resp, err := get("/api/user-stats/" + ctx.String("address"))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
