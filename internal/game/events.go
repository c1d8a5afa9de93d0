package game

type EventName string

const (
	EvtRoomUpdate   EventName = "room_update"
	EvtStartRound   EventName = "start_round"
	EvtGuessSuccess EventName = "guess_success"
	EvtGuessWrong   EventName = "guess_wrong"
	EvtRoundEnded   EventName = "round_ended"
)

// Event is an outbound notification for every connection in RoomID.
// Payload is either a Room snapshot or a GuessWrong.
type Event struct {
	Name    EventName
	RoomID  string
	Payload any
}

type GuessWrong struct {
	Room    Room   `json:"room"`
	Message string `json:"message"`
}

func roomEvent(name EventName, r *Room) Event {
	return Event{Name: name, RoomID: r.ID, Payload: r.Snapshot()}
}

// Contains reports whether events has one named name.
func Contains(events []Event, name EventName) bool {
	for _, e := range events {
		if e.Name == name {
			return true
		}
	}
	return false
}
