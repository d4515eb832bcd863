package shell

import (
	"strconv"
	"strings"

	"pandemic/internal/engine"
	"pandemic/internal/errx"
	"pandemic/internal/protocol"
)

var ErrUnknownCommand = errx.NewBiz("UNKNOWN_COMMAND", "unknown command; type help")
var ErrUsage = errx.NewBiz("USAGE", "wrong arguments")

// Kind is what a parsed command asks for.
type Kind int

const (
	KindAction Kind = iota
	KindNewGame
	KindQuery
	KindHelp
	KindQuit
)

// Command is one parsed input line.
type Command struct {
	Kind    Kind
	Action  engine.Action
	NewGame protocol.NewGameMsg
	Topic   string // status, hand, connections, city
	Arg     string
}

var moveCommands = map[string]engine.ActionType{
	"drive":   engine.ActionDrive,
	"direct":  engine.ActionDirectFlight,
	"charter": engine.ActionCharterFlight,
	"shuttle": engine.ActionShuttleFlight,
}

// Parse reads one text command. Unset new-game fields are left zero for
// the caller to fill from its defaults.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrUsage.WithData("reason", "empty line")
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.Join(args, " ")

	if t, ok := moveCommands[name]; ok {
		if rest == "" {
			return Command{}, usage(name, "<city>")
		}
		return action(engine.Action{Type: t, City: rest}), nil
	}

	switch name {
	case "new":
		return parseNew(args)
	case "build":
		if len(args) == 0 {
			return action(engine.Action{Type: engine.ActionBuildStation}), nil
		}
		if strings.ToLower(args[0]) != "from" || len(args) < 2 {
			return Command{}, usage(name, "[from <city>]")
		}
		return action(engine.Action{Type: engine.ActionBuildStation, From: strings.Join(args[1:], " ")}), nil
	case "treat":
		a := engine.Action{Type: engine.ActionTreat}
		if rest != "" {
			c, err := engine.ParseColor(rest)
			if err != nil {
				return Command{}, err
			}
			a.Color = &c
		}
		return action(a), nil
	case "give", "take":
		if len(args) < 2 {
			return Command{}, usage(name, "<player> <card>")
		}
		other, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, usage(name, "<player> <card>")
		}
		return action(engine.Action{
			Type:      engine.ActionShare,
			Direction: engine.ShareDirection(name),
			Other:     other,
			Card:      strings.Join(args[1:], " "),
		}), nil
	case "cure":
		return parseCure(args)
	case "discard":
		if rest == "" {
			return Command{}, usage(name, "<card>")
		}
		return action(engine.Action{Type: engine.ActionDiscard, Card: rest}), nil
	case "end":
		return action(engine.Action{Type: engine.ActionEndTurn}), nil
	case "status", "hand", "connections", "city":
		if name == "city" && rest == "" {
			return Command{}, usage(name, "<name>")
		}
		return Command{Kind: KindQuery, Topic: name, Arg: rest}, nil
	case "help", "?":
		return Command{Kind: KindHelp}, nil
	case "quit", "exit":
		return Command{Kind: KindQuit}, nil
	}
	return Command{}, ErrUnknownCommand.WithData("command", name)
}

func action(a engine.Action) Command {
	return Command{Kind: KindAction, Action: a}
}

func usage(name, args string) error {
	return ErrUsage.WithData("usage", name+" "+args)
}

func parseNew(args []string) (Command, error) {
	var nums [2]int
	var seed uint64
	for i, a := range args {
		switch {
		case i < 2:
			n, err := strconv.Atoi(a)
			if err != nil {
				return Command{}, usage("new", "[players] [difficulty] [seed]")
			}
			nums[i] = n
		case i == 2:
			s, err := strconv.ParseUint(a, 10, 64)
			if err != nil {
				return Command{}, usage("new", "[players] [difficulty] [seed]")
			}
			seed = s
		default:
			return Command{}, usage("new", "[players] [difficulty] [seed]")
		}
	}
	return Command{Kind: KindNewGame, NewGame: protocol.NewGameMsg{
		Players: nums[0], Difficulty: nums[1], Seed: seed,
	}}, nil
}

// parseCure reads "cure <color> <card>, <card>, ...".
func parseCure(args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, usage("cure", "<color> <card>, <card>, ...")
	}
	c, err := engine.ParseColor(args[0])
	if err != nil {
		return Command{}, err
	}
	var cards []string
	for _, part := range strings.Split(strings.Join(args[1:], " "), ",") {
		if part = strings.TrimSpace(part); part != "" {
			cards = append(cards, part)
		}
	}
	return action(engine.Action{Type: engine.ActionCure, Color: &c, Cards: cards}), nil
}

// ParseEnvelope reads one JSON envelope line. Any type that is not a
// new-game, query or quit message is decoded as an engine action.
func ParseEnvelope(line string) (Command, error) {
	env, err := protocol.ParseEnvelope([]byte(line))
	if err != nil {
		return Command{}, err
	}
	switch env.Type {
	case protocol.MsgNewGame:
		msg, err := protocol.DecodeNewGame(env)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindNewGame, NewGame: msg}, nil
	case protocol.MsgStatus, protocol.MsgHand, protocol.MsgConnections, protocol.MsgCity:
		q, err := protocol.DecodeQuery(env)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindQuery, Topic: env.Type, Arg: q.Arg}, nil
	case protocol.MsgQuit:
		return Command{Kind: KindQuit}, nil
	}
	a, err := protocol.DecodeAction(env)
	if err != nil {
		return Command{}, err
	}
	return action(a), nil
}
