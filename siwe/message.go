// Package siwe builds and parses EIP-4361 sign-in messages.
package siwe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Version is the EIP-4361 message version this package produces
const Version = "1"

const greetingSuffix = " wants you to sign in with your Ethereum account:"

// ErrMalformedMessage is returned when a message does not follow the
// EIP-4361 layout
var ErrMalformedMessage = errors.New("malformed sign-in message")

// Message holds the fields of an EIP-4361 sign-in message
type Message struct {
	Domain    string    // Authority requesting the sign-in
	Address   string    // Ethereum address performing the sign-in
	Statement string    // Optional human-readable statement
	URI       string    // Resource the sign-in is scoped to
	Version   string    // Message version, see Version
	ChainID   int64     // Chain the address operates on
	Nonce     string    // Single-use challenge nonce
	IssuedAt  time.Time // When the message was generated
}

// String renders the message in its canonical signable form
func (m Message) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s\n", m.Domain, greetingSuffix)
	fmt.Fprintf(&b, "%s\n", m.Address)
	if m.Statement != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Statement)
	}
	fmt.Fprintf(&b, "\nURI: %s\n", m.URI)
	fmt.Fprintf(&b, "Version: %s\n", m.Version)
	fmt.Fprintf(&b, "Chain ID: %d\n", m.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s", m.IssuedAt.UTC().Format(time.RFC3339))

	return b.String()
}

// Validate checks that every required field is present
func (m Message) Validate() error {
	switch {
	case m.Domain == "":
		return fmt.Errorf("%w: missing domain", ErrMalformedMessage)
	case m.Address == "":
		return fmt.Errorf("%w: missing address", ErrMalformedMessage)
	case m.URI == "":
		return fmt.Errorf("%w: missing uri", ErrMalformedMessage)
	case m.Version == "":
		return fmt.Errorf("%w: missing version", ErrMalformedMessage)
	case m.ChainID <= 0:
		return fmt.Errorf("%w: invalid chain id", ErrMalformedMessage)
	case m.Nonce == "":
		return fmt.Errorf("%w: missing nonce", ErrMalformedMessage)
	case m.IssuedAt.IsZero():
		return fmt.Errorf("%w: missing issued-at", ErrMalformedMessage)
	}
	return nil
}

// Parse reconstructs a Message from its canonical form. The verifying side
// uses it to read the address and nonce out of a submitted message.
func Parse(text string) (Message, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 8 {
		return Message{}, fmt.Errorf("%w: too few lines", ErrMalformedMessage)
	}

	if !strings.HasSuffix(lines[0], greetingSuffix) {
		return Message{}, fmt.Errorf("%w: bad greeting line", ErrMalformedMessage)
	}

	m := Message{
		Domain:  strings.TrimSuffix(lines[0], greetingSuffix),
		Address: lines[1],
	}

	if lines[2] != "" {
		return Message{}, fmt.Errorf("%w: expected blank line after address", ErrMalformedMessage)
	}

	// An optional statement sits between the address block and the fields
	i := 3
	if !strings.HasPrefix(lines[i], "URI: ") {
		m.Statement = lines[i]
		i++
		if i >= len(lines) || lines[i] != "" {
			return Message{}, fmt.Errorf("%w: expected blank line after statement", ErrMalformedMessage)
		}
		i++
	}

	if len(lines) < i+5 {
		return Message{}, fmt.Errorf("%w: missing fields", ErrMalformedMessage)
	}

	var err error
	if m.URI, err = fieldValue(lines[i], "URI: "); err != nil {
		return Message{}, err
	}
	if m.Version, err = fieldValue(lines[i+1], "Version: "); err != nil {
		return Message{}, err
	}

	chainID, err := fieldValue(lines[i+2], "Chain ID: ")
	if err != nil {
		return Message{}, err
	}
	if m.ChainID, err = strconv.ParseInt(chainID, 10, 64); err != nil {
		return Message{}, fmt.Errorf("%w: chain id %q", ErrMalformedMessage, chainID)
	}

	if m.Nonce, err = fieldValue(lines[i+3], "Nonce: "); err != nil {
		return Message{}, err
	}

	issuedAt, err := fieldValue(lines[i+4], "Issued At: ")
	if err != nil {
		return Message{}, err
	}
	if m.IssuedAt, err = time.Parse(time.RFC3339, issuedAt); err != nil {
		return Message{}, fmt.Errorf("%w: issued-at %q", ErrMalformedMessage, issuedAt)
	}

	return m, nil
}

func fieldValue(line, prefix string) (string, error) {
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("%w: expected %q line", ErrMalformedMessage, strings.TrimSuffix(prefix, ": "))
	}
	return strings.TrimPrefix(line, prefix), nil
}
