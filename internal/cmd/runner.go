package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reeflective/readline"

	"github.com/adaiasmagdiel/metaai-go/sdk/metaai"
)

// runner prints answers for one CLI invocation.
type runner struct {
	client *metaai.Client
	out    io.Writer
	errOut io.Writer

	stream bool
	json   bool
	// newConversation applies to the next prompt only.
	newConversation bool
}

func (r *runner) promptOptions() []metaai.PromptOption {
	if !r.newConversation {
		return nil
	}
	r.newConversation = false
	return []metaai.PromptOption{metaai.WithNewConversation()}
}

// ask sends one prompt and prints its answer.
func (r *runner) ask(ctx context.Context, message string) error {
	opts := r.promptOptions()
	if !r.stream {
		result, err := r.client.Prompt(ctx, message, opts...)
		if err != nil {
			return err
		}
		return r.print(result)
	}

	stream, err := r.client.PromptStream(ctx, message, opts...)
	if err != nil {
		return err
	}
	defer stream.Close()

	printed := ""
	for stream.Next() {
		result := stream.Result()
		if r.json {
			if err = r.print(result); err != nil {
				return err
			}
			continue
		}
		// Each increment is the whole text so far; print only what is new.
		if strings.HasPrefix(result.Message, printed) {
			fmt.Fprint(r.out, result.Message[len(printed):])
		} else {
			fmt.Fprint(r.out, "\n"+result.Message)
		}
		printed = result.Message
	}
	if !r.json && printed != "" {
		fmt.Fprintln(r.out)
	}
	return stream.Err()
}

func (r *runner) print(result *metaai.PromptResult) error {
	if r.json {
		return json.NewEncoder(r.out).Encode(result)
	}
	_, err := fmt.Fprintln(r.out, result.Message)
	return err
}

// repl reads prompts until EOF or /exit. Prompt errors are reported and the
// loop continues.
func (r *runner) repl(ctx context.Context, src lineSource) error {
	for {
		line, err := src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/new":
			r.newConversation = true
			continue
		}

		if err = r.ask(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}
	}
}
