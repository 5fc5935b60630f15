package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

var (
	hashFlag = &cli.StringFlag{
		Name:     "hash",
		Usage:    "the 0x prefixed commitment hash",
		Required: true,
	}
	senderFlag = &cli.StringFlag{
		Name:     "sender",
		Usage:    "the address of the sender",
		Required: true,
	}
	recipientFlag = &cli.StringFlag{
		Name:     "recipient",
		Usage:    "the address of the recipient",
		Required: true,
	}
	amountFlag = &cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount of token to transfer",
		Required: true,
	}
	tokenFlag = &cli.StringFlag{
		Name:     "token",
		Usage:    "the symbol or address of the token",
		Required: true,
	}
)

var generate = cli.Command{
	Name:   "generate",
	Usage:  "generate a new hidden transfer commitment",
	Flags:  []cli.Flag{senderFlag, recipientFlag, amountFlag, tokenFlag},
	Action: generateAction,
}

var verify = cli.Command{
	Name:   "verify",
	Usage:  "check whether a commitment can be claimed by a recipient",
	Flags:  []cli.Flag{hashFlag, recipientFlag},
	Action: verifyAction,
}

var open = cli.Command{
	Name:  "open",
	Usage: "check whether the given values open a commitment",
	Flags: []cli.Flag{
		hashFlag, senderFlag, recipientFlag, amountFlag, tokenFlag,
		&cli.StringFlag{
			Name:     "salt",
			Usage:    "the salt of the commitment",
			Required: true,
		},
		&cli.Int64Flag{
			Name:     "timestamp",
			Usage:    "the unix timestamp of the commitment",
			Required: true,
		},
	},
	Action: openAction,
}

var status = cli.Command{
	Name:   "status",
	Usage:  "get the status of a commitment",
	Flags:  []cli.Flag{hashFlag},
	Action: statusAction,
}

var pending = cli.Command{
	Name:   "pending",
	Usage:  "list the pending commitments of a recipient",
	Flags:  []cli.Flag{recipientFlag},
	Action: pendingAction,
}

var claim = cli.Command{
	Name:  "claim",
	Usage: "claim a pending commitment",
	Flags: []cli.Flag{
		hashFlag,
		&cli.StringFlag{
			Name:     "claimer",
			Usage:    "the address of the recipient claiming the commitment",
			Required: true,
		},
	},
	Action: claimAction,
}

var cancel = cli.Command{
	Name:   "cancel",
	Usage:  "cancel a pending commitment",
	Flags:  []cli.Flag{hashFlag, senderFlag},
	Action: cancelAction,
}

var list = cli.Command{
	Name:  "list",
	Usage: "list all the commitments, newest first",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "page",
			Usage: "the number of the page to fetch",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "page_size",
			Usage: "the number of commitments per page",
			Value: 10,
		},
	},
	Action: listAction,
}

func generateAction(ctx *cli.Context) error {
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	resp, err := post("/api/generate-hash", map[string]interface{}{
		"sender":    ctx.String("sender"),
		"recipient": ctx.String("recipient"),
		"amount":    amount,
		"token":     ctx.String("token"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func verifyAction(ctx *cli.Context) error {
	resp, err := post("/api/verify-transaction", map[string]string{
		"hash":      ctx.String("hash"),
		"recipient": ctx.String("recipient"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func openAction(ctx *cli.Context) error {
	amount, err := parseAmount(ctx.String("amount"))
	if err != nil {
		return err
	}

	resp, err := post("/api/verify-opening", map[string]interface{}{
		"hash":      ctx.String("hash"),
		"sender":    ctx.String("sender"),
		"recipient": ctx.String("recipient"),
		"amount":    amount,
		"token":     ctx.String("token"),
		"salt":      ctx.String("salt"),
		"timestamp": ctx.Int64("timestamp"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func statusAction(ctx *cli.Context) error {
	resp, err := get("/api/transaction-status/" + ctx.String("hash"))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func pendingAction(ctx *cli.Context) error {
	resp, err := get("/api/pending-transfers/" + ctx.String("recipient"))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func claimAction(ctx *cli.Context) error {
	resp, err := post("/api/claim-transaction", map[string]string{
		"hash":    ctx.String("hash"),
		"claimer": ctx.String("claimer"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func cancelAction(ctx *cli.Context) error {
	resp, err := post("/api/cancel-transaction", map[string]string{
		"hash":   ctx.String("hash"),
		"sender": ctx.String("sender"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listAction(ctx *cli.Context) error {
	query := url.Values{}
	query.Set("page", strconv.Itoa(ctx.Int("page")))
	query.Set("page_size", strconv.Itoa(ctx.Int("page_size")))

	resp, err := get("/api/transactions?" + query.Encode())
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func parseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %s", amount)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero")
	}
	return d, nil
}
