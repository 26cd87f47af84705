// Package smtp provides the mail transport used by the notification
// sender.
package smtp

import "io"

// Client is the subset of the SMTP session used by the sender.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface abstracts the transport for tests.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
