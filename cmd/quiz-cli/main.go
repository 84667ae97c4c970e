package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/skill-horizon/internal/cli"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

func main() {
	quizID := flag.String("quiz", quiz.CareerFundamentals().ID, "Built-in quiz to play")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	builtin := quiz.Builtin()
	def, ok := builtin[*quizID]
	if !ok {
		ids := make([]string, 0, len(builtin))
		for id := range builtin {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		log.Fatal().Str("quiz", *quizID).Str("available", strings.Join(ids, ",")).Msg("unknown quiz")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, def, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("quiz ended")
	}
}
