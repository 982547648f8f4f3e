package plugin

import "strings"

// StatusCode is a response code sent by the YaCA voice plugin.
type StatusCode string

const (
	StatusRenameClient    StatusCode = "RENAME_CLIENT"
	StatusMoveClient      StatusCode = "MOVE_CLIENT"
	StatusMuteState       StatusCode = "MUTE_STATE"
	StatusTalkState       StatusCode = "TALK_STATE"
	StatusOK              StatusCode = "OK"
	StatusWrongTSServer   StatusCode = "WRONG_TS_SERVER"
	StatusNotConnected    StatusCode = "NOT_CONNECTED"
	StatusMoveError       StatusCode = "MOVE_ERROR"
	StatusOutdatedVersion StatusCode = "OUTDATED_VERSION"
	StatusWaitGameInit    StatusCode = "WAIT_GAME_INIT"
	StatusHeartbeat       StatusCode = "HEARTBEAT"
)

// StatusCodes lists every code the plugin can send.
var StatusCodes = []StatusCode{
	StatusRenameClient,
	StatusMoveClient,
	StatusMuteState,
	StatusTalkState,
	StatusOK,
	StatusWrongTSServer,
	StatusNotConnected,
	StatusMoveError,
	StatusOutdatedVersion,
	StatusWaitGameInit,
	StatusHeartbeat,
}

// ParseStatusCode converts the wire spelling of a code. Surrounding
// whitespace and case are ignored; unknown codes return false.
func ParseStatusCode(s string) (StatusCode, bool) {
	candidate := StatusCode(strings.ToUpper(strings.TrimSpace(s)))
	for _, code := range StatusCodes {
		if code == candidate {
			return code, true
		}
	}
	return "", false
}

// stateTable maps health-relevant codes to the state they resolve to.
// Codes missing from the table are auxiliary and ignored.
var stateTable = map[StatusCode]State{
	StatusOK: StateReady,

	StatusMoveError:       StateDegraded,
	StatusOutdatedVersion: StateDegraded,
	StatusWaitGameInit:    StateDegraded,

	StatusWrongTSServer: StateError,
	StatusNotConnected:  StateError,
}

// Resolve maps a code to its external state. The second result is false
// for codes that carry no health information.
func Resolve(code StatusCode) (State, bool) {
	state, ok := stateTable[code]
	return state, ok
}
