package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	ucli "github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	echoapi "github.com/trezcool/masomo-meet/apps/api/echo"
	calendarsvc "github.com/trezcool/masomo-meet/services/calendar"
)

var (
	isTerminalFunc   = term.IsTerminal   // mockable
	readPasswordFunc = term.ReadPassword // mockable

	oauthExchangeFunc = func(ctx context.Context, config *oauth2.Config, code string) (*oauth2.Token, error) { // mockable
		return config.Exchange(ctx, code)
	}

	oauthState = "masomo-meet"
)

func (cli *commandLine) token(c *ucli.Context) error {
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, c.String("subject")))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}

func (cli *commandLine) gauth(c *ucli.Context) error {
	config, err := calendarsvc.OAuthConfig(cli.conf)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Go to the following link in your browser then type the authorization code:\n%v\n", config.AuthCodeURL(oauthState, oauth2.AccessTypeOffline))
	fmt.Fprint(cli.out, "Enter authorization code: ")
	code, err := cli.readSecret()
	fmt.Fprintln(cli.out)
	if err != nil {
		return errors.Wrap(err, "reading authorization code")
	}
	if code == "" {
		return errHelp
	}

	token, err := oauthExchangeFunc(c.Context, config, code)
	if err != nil {
		return errors.Wrap(err, "retrieving token from web")
	}
	if err = calendarsvc.SaveToken(cli.conf.Google.TokenFile, token); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "token saved to %s\n", cli.conf.Google.TokenFile)
	return nil
}

// readSecret reads a line without echoing it when stdin is a terminal.
func (cli *commandLine) readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if cli.in == os.Stdin && isTerminalFunc(fd) {
		b, err := readPasswordFunc(fd)
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
