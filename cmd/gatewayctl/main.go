// Command gatewayctl is an operator tool for the Twilio gateway. It signs
// webhook requests for manual testing and mints admin credentials.
//
// Usage:
//
//	gatewayctl sign -token $TWILIO_AUTH_TOKEN -url https://hooks.example.com/webhook/twilio/test -param From=+573001234567
//	gatewayctl token -secret $JWT_SECRET -subject ops -ttl 1h
//	gatewayctl hash-key -key s3cr3t
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"twilio-gateway/internal/common/auth"
	"twilio-gateway/internal/signature"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "gatewayctl:", err)
		os.Exit(1)
	}
}

const usage = "usage: gatewayctl <sign|token|hash-key> [flags]"

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "sign":
		return runSign(args[1:], out)
	case "token":
		return runToken(args[1:], out)
	case "hash-key":
		return runHashKey(args[1:], out)
	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}
}

// params collects repeated -param name=value flags.
type params map[string]string

func (p params) String() string { return fmt.Sprint(map[string]string(p)) }

func (p params) Set(v string) error {
	name, value, ok := strings.Cut(v, "=")
	if !ok || name == "" {
		return fmt.Errorf("param %q must be name=value", v)
	}
	if _, dup := p[name]; !dup {
		p[name] = value
	}
	return nil
}

func runSign(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	token := fs.String("token", os.Getenv("TWILIO_AUTH_TOKEN"), "Twilio auth token")
	rawURL := fs.String("url", "", "full URL Twilio requests, including query")
	p := params{}
	fs.Var(p, "param", "form parameter name=value; repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" || *rawURL == "" {
		return errors.New("sign requires -token and -url")
	}

	fmt.Fprintln(out, signature.Compute(*token, *rawURL, p))
	return nil
}

func runToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	subject := fs.String("subject", "operator", "token subject")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tok, err := auth.IssueToken(*secret, *subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}

func runHashKey(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-key", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	key := fs.String("key", "", "API key to hash")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hash, err := auth.HashAPIKey(*key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, hash)
	return nil
}
