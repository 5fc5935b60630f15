package main

import (
	"github.com/urfave/cli/v2"
)

var quote = cli.Command{
	Name:  "quote",
	Usage: "get an advisory quote for a swap",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "token_in",
			Usage:    "the token to sell",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "token_out",
			Usage:    "the token to buy",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount_in",
			Usage:    "the amount of token_in to sell",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "decimals_in",
			Usage: "the precision of token_in",
			Value: 18,
		},
	},
	Action: quoteAction,
}

func quoteAction(ctx *cli.Context) error {
	amountIn, err := parseAmount(ctx.String("amount_in"))
	if err != nil {
		return err
	}

	resp, err := post("/api/uniswap/quote", map[string]interface{}{
		"token_in":    ctx.String("token_in"),
		"token_out":   ctx.String("token_out"),
		"amount_in":   amountIn,
		"decimals_in": ctx.Int("decimals_in"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
