package session

import (
	"context"
	"fmt"

	"github.com/oomph-ac/posesync/oerror"
	"github.com/sandertv/go-raknet"
)

// Listen starts accepting session links on address.
func Listen(address string) (*raknet.Listener, error) {
	l, err := raknet.Listen(address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}
	return l, nil
}

// Accept waits for the next session link on l.
func Accept(l *raknet.Listener) (*raknet.Conn, error) {
	c, err := l.Accept()
	if err != nil {
		return nil, err
	}
	conn, ok := c.(*raknet.Conn)
	if !ok {
		_ = c.Close()
		return nil, oerror.New("unexpected connection type %T", c)
	}
	return conn, nil
}

// Dial opens a session link to address.
func Dial(ctx context.Context, address string) (*raknet.Conn, error) {
	conn, err := raknet.DialContext(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return conn, nil
}
