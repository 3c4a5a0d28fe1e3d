// Command fitbot is a terminal client for the fitness chat relay.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/fitness-hub/core/internal/pkg/chatstream"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	url := flag.String("url", envOr("FITBOT_URL", "http://localhost:3000/functions/v1/fitness-chat"), "chat relay endpoint")
	key := flag.String("key", os.Getenv("FITBOT_API_KEY"), "bearer key sent to the relay")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := chatstream.NewClient(*url, *key, nil)
	if err := run(ctx, client, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type streamer interface {
	Stream(ctx context.Context, messages []domain.Message) (*chatstream.Reader, io.Closer, error)
}

func run(ctx context.Context, client streamer, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, domain.FitBotAcknowledgment)
	fmt.Fprintln(out, `Type a message and press enter. "/clear" resets the conversation, "/quit" exits.`)

	var transcript chatstream.Transcript
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/clear":
			transcript.Clear()
			continue
		}

		transcript.AddUser(line)
		if err := turn(ctx, client, &transcript, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(out, userMessage(err))
		}
	}
}

func turn(ctx context.Context, client streamer, transcript *chatstream.Transcript, out io.Writer) error {
	reader, body, err := client.Stream(ctx, transcript.Messages())
	if err != nil {
		return err
	}
	defer body.Close()

	transcript.BeginAssistant()
	defer transcript.EndAssistant()
	for reader.Next() {
		frag := reader.Fragment()
		transcript.Append(frag)
		fmt.Fprint(out, frag)
	}
	fmt.Fprintln(out)
	return reader.Err()
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case errors.Is(err, domain.ErrPaymentRequired):
		return "Payment required. Please add credits."
	default:
		return "Failed to get response"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
