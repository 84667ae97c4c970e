// Package cli plays a quiz in the terminal by feeding engine events from stdin.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

const maxAttempts = 3

// ErrTooManyInvalid ends the game after repeated unreadable answers.
var ErrTooManyInvalid = errors.New("too many invalid answers")

// Run plays def until the user declines a restart or input ends.
func Run(ctx context.Context, def quiz.Definition, in io.Reader, out io.Writer) error {
	engine, err := quiz.NewEngine(def)
	if err != nil {
		return err
	}
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "%s\n", def.Title)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap := engine.Snapshot()
		if snap.Completed {
			printSummary(out, snap)
			again, err := confirm(reader, out, "Play again? [y/N] ")
			if err != nil || !again {
				return ignoreEOF(err)
			}
			engine.Dispatch(quiz.Event{Type: quiz.EventRestart})
			continue
		}

		question := engine.CurrentQuestion()
		printQuestion(out, snap, question)

		optionID, err := readOption(reader, out, question)
		if err != nil {
			return ignoreEOF(err)
		}
		engine.Dispatch(quiz.Event{Type: quiz.EventSelectOption, OptionID: optionID})
		engine.Dispatch(quiz.Event{Type: quiz.EventCheckAnswer})
		printFeedback(out, engine.LastAnswerCorrect(), question)

		fmt.Fprint(out, "Press Enter to continue...")
		if _, err := reader.ReadString('\n'); err != nil {
			return ignoreEOF(err)
		}
		engine.Dispatch(quiz.Event{Type: quiz.EventNextQuestion})
	}
}

func printQuestion(out io.Writer, snap quiz.Snapshot, question quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Question %d of %d (%d%%)\n", snap.CurrentIndex+1, snap.TotalQuestions, snap.ProgressPercent)
	fmt.Fprintf(out, "%s\n\n", question.Prompt)
	for i, option := range question.Options {
		fmt.Fprintf(out, "%c. %s\n", 'A'+i, option.Text)
	}
	fmt.Fprintln(out)
}

func printFeedback(out io.Writer, correct bool, question quiz.Question) {
	title, description := quiz.AnswerFeedback(correct)
	fmt.Fprintf(out, "\n%s %s\n", title, description)
	if !correct {
		fmt.Fprintf(out, "Correct answer: %s\n", question.CorrectOption().Text)
	}
	if question.Explanation != "" {
		fmt.Fprintf(out, "%s\n", question.Explanation)
	}
}

func printSummary(out io.Writer, snap quiz.Snapshot) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Final score: %d/%d (%d%%)\n", snap.Score, snap.TotalQuestions, snap.FinalPercent)
	fmt.Fprintln(out, quiz.FeedbackMessage(snap.Tier))
}

// readOption maps a letter answer onto the option id.
func readOption(reader *bufio.Reader, out io.Writer, question quiz.Question) (string, error) {
	maxLetter := byte('A' + len(question.Options) - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fmt.Fprint(out, "Your answer: ")
		line, err := reader.ReadString('\n')
		answer := strings.ToUpper(strings.TrimSpace(line))
		if len(answer) == 1 && answer[0] >= 'A' && answer[0] <= maxLetter {
			return question.Options[answer[0]-'A'].ID, nil
		}
		if err != nil {
			return "", err
		}
		fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c.\n", maxLetter)
	}
	return "", ErrTooManyInvalid
}

func confirm(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "y" || answer == "yes" {
		return true, nil
	}
	return false, err
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
