package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"resty.dev/v3"
)

func newClient() *resty.Client {
	path := SocketPath()

	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", path)
			},
		},
	})

	client.SetBaseURL("http://sldshow")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "sldshow")
	return client
}

func SendCommand(cmd Command) (*Response, error) {
	result := Response{}

	response, err := newClient().R().SetBody(cmd).SetResult(&result).SetError(&result).Post("/command")
	if err != nil {
		return nil, err
	}

	if response.StatusCode() != http.StatusOK {
		if result.Message != "" {
			return nil, fmt.Errorf("error sending command: %s", result.Message)
		}
		return nil, fmt.Errorf("error sending command: %s", response.Status())
	}

	return &result, nil
}

// Send issues a player command and discards the reply.
func Send(t CommandType, args ...string) error {
	_, err := SendCommand(Command{Type: t, Args: args})
	return err
}

func SendStop() error {
	return Send(CommandStop)
}

func SendNext() error {
	return Send(CommandNext)
}

func SendJump(index int) error {
	return Send(CommandJump, strconv.Itoa(index))
}

func SendLoad(paths []string) error {
	return Send(CommandLoad, paths...)
}

func SendStatus() (*StatusResponse, error) {
	result := StatusResponse{}

	response, err := newClient().R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error getting status: %s", response.Status())
	}
	return &result, nil
}
