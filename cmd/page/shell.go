package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/fondantshop/pkg/models"
	"github.com/example/fondantshop/pkg/page"
	"github.com/example/fondantshop/pkg/session"
)

// pageAPI is the part of *page.Handle the shell drives.
type pageAPI interface {
	AddToCart(productID, name string, price models.Price, image string, quantity int) (int, error)
	RemoveFromCart(productID string) (int, error)
	UpdateQuantity(productID string, quantity int) (int, error)
	ClearCart() error
	Checkout(name, price string) error
	ShowOrders() (bool, error)
	Click(selector string) (bool, error)
	Snapshot() (*page.State, error)
}

type signer interface {
	SignIn(ctx context.Context, idToken string) (*models.Identity, error)
}

type shell struct {
	page     pageAPI
	provider session.Provider
	out      io.Writer
}

var errUsage = errors.New("usage")

const help = `commands:
  add <id> <price> <qty> <name...>
  remove <id>
  qty <id> <n>
  clear
  checkout <price> <name...>
  orders
  click <selector...>
  signin <id-token>
  login <uid> <email>
  signout
  html
  quit`

// exec runs one command line and reports whether the shell should stop.
func (s *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	if cmd == "quit" || cmd == "exit" {
		return true
	}

	if err := s.run(ctx, cmd, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(s.out, help)
		} else {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return false
}

func (s *shell) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "add":
		if len(args) < 4 {
			return errUsage
		}
		price, err := models.ParsePrice(args[1])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		lines, err := s.page.AddToCart(args[0], strings.Join(args[3:], " "), price, "", qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "cart lines: %d\n", lines)

	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		lines, err := s.page.RemoveFromCart(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "cart lines: %d\n", lines)

	case "qty":
		if len(args) != 2 {
			return errUsage
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		lines, err := s.page.UpdateQuantity(args[0], n)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "cart lines: %d\n", lines)

	case "clear":
		return s.page.ClearCart()

	case "checkout":
		if len(args) < 2 {
			return errUsage
		}
		return s.page.Checkout(strings.Join(args[1:], " "), args[0])

	case "orders":
		ok, err := s.page.ShowOrders()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "no order history container on this page")
		}

	case "click":
		if len(args) == 0 {
			return errUsage
		}
		handled, err := s.page.Click(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "handled: %v\n", handled)

	case "signin":
		if len(args) != 1 {
			return errUsage
		}
		sp, ok := s.provider.(signer)
		if !ok {
			return errors.New("the configured identity provider does not accept tokens")
		}
		user, err := sp.SignIn(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "signed in as %s\n", user.Name())

	case "login":
		if len(args) != 2 {
			return errUsage
		}
		mp, ok := s.provider.(*session.MemoryProvider)
		if !ok {
			return errors.New("login is only available with in-memory sessions")
		}
		mp.Set(&models.Identity{UID: args[0], Email: args[1]})
		fmt.Fprintf(s.out, "signed in as %s\n", args[1])

	case "signout":
		return s.provider.SignOut(ctx)

	case "html":
		state, err := s.page.Snapshot()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, state.HTML)

	default:
		return errUsage
	}
	return nil
}
