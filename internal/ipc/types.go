package ipc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matjam/sldshow/internal/cache"
	"github.com/matjam/sldshow/internal/transition"
	"github.com/samber/lo"
)

type CommandType string

const (
	CommandStop        CommandType = "stop"
	CommandNext        CommandType = "next"
	CommandPrev        CommandType = "prev"
	CommandNext10      CommandType = "next10"
	CommandPrev10      CommandType = "prev10"
	CommandFirst       CommandType = "first"
	CommandLast        CommandType = "last"
	CommandRandom      CommandType = "random"
	CommandJump        CommandType = "jump"
	CommandPause       CommandType = "pause"
	CommandResume      CommandType = "resume"
	CommandTogglePause CommandType = "toggle-pause"
	CommandResetTimer  CommandType = "reset-timer"
	CommandPauseAtLast CommandType = "toggle-pause-at-last"
	CommandLoad        CommandType = "load"
	CommandMode        CommandType = "mode"
	CommandTimer       CommandType = "timer"
	CommandStatus      CommandType = "status"
)

// PlayerCommands are the commands the player loop executes. Status is
// answered by the server directly.
var PlayerCommands = []CommandType{
	CommandStop, CommandNext, CommandPrev, CommandNext10, CommandPrev10,
	CommandFirst, CommandLast, CommandRandom, CommandJump,
	CommandPause, CommandResume, CommandTogglePause,
	CommandResetTimer, CommandPauseAtLast,
	CommandLoad, CommandMode, CommandTimer,
}

type Command struct {
	Type CommandType `json:"type"`
	Args []string    `json:"args"`
}

// Validate checks the argument count and format for the command type.
func (c Command) Validate() error {
	switch c.Type {
	case CommandJump:
		if len(c.Args) != 1 {
			return fmt.Errorf("jump takes one index")
		}
		if _, err := strconv.Atoi(c.Args[0]); err != nil {
			return fmt.Errorf("jump: invalid index %q", c.Args[0])
		}
	case CommandLoad:
		if len(c.Args) == 0 {
			return fmt.Errorf("load needs at least one path")
		}
	case CommandMode:
		if len(c.Args) != 1 {
			return fmt.Errorf("mode takes one name, or \"random\"")
		}
		if c.Args[0] != "random" {
			if _, err := transition.ParseMode(c.Args[0]); err != nil {
				return err
			}
		}
	case CommandTimer:
		if len(c.Args) != 1 {
			return fmt.Errorf("timer takes one value in seconds")
		}
		if _, _, err := ParseTimer(c.Args[0]); err != nil {
			return err
		}
	case CommandStatus:
	default:
		if !lo.Contains(PlayerCommands, c.Type) {
			return fmt.Errorf("unknown command %q", c.Type)
		}
	}
	return nil
}

// ParseTimer reads a timer argument. A leading + or - makes it relative.
func ParseTimer(s string) (seconds float64, relative bool, err error) {
	relative = strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")
	seconds, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("timer: invalid seconds %q", s)
	}
	if !relative && seconds < 0 {
		return 0, false, fmt.Errorf("timer: negative seconds %q", s)
	}
	return seconds, relative, nil
}

// Controller is what the server needs from the player.
type Controller interface {
	EnqueueCommand(Command) error
	Status() PlayerStatus
}

// PlayerStatus is a snapshot published by the player loop.
type PlayerStatus struct {
	Index      int         `json:"index"`
	Path       string      `json:"path"`
	Count      int         `json:"count"`
	State      string      `json:"state"`
	Mode       string      `json:"mode"`
	Random     bool        `json:"random"`
	Paused     bool        `json:"paused"`
	PauseAtEnd bool        `json:"pause_at_last"`
	Timer      float64     `json:"timer"`
	Remaining  float64     `json:"remaining"`
	Cache      cache.Stats `json:"cache"`
	WindowSize [2]int      `json:"window_size"`
}

type StatusResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Version string       `json:"version"`
	PID     int          `json:"pid"`
	Socket  string       `json:"socket"`
	Config  string       `json:"config"`
	RSS     uint64       `json:"rss"`
	Player  PlayerStatus `json:"player"`
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
