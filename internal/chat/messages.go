package chat

import (
	"errors"
	"net/http"
	"time"

	"github.com/pairchat/go-pairchat/internal/types"
)

type BaseMessage struct {
	Id        int       `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ClientMessage struct {
	BaseMessage
	Join    *Join    `json:"join,omitempty"`
	Publish *Publish `json:"publish,omitempty"`
	History *History `json:"history,omitempty"`
	UserId  int      `json:"-"`
	client  *Client  `json:"-"`
}

func (cm *ClientMessage) GetUserId() int {
	if cm.UserId != 0 {
		return cm.UserId
	}

	if cm.client != nil {
		return cm.client.user.Id
	}

	return 0
}

// Join asks for the room shared with another user, creating it on
// first use.
type Join struct {
	UserId int `json:"user_id"`
}

type Publish struct {
	RoomId  int    `json:"room_id"`
	Content string `json:"content"`
}

type History struct {
	RoomId int `json:"room_id"`
}

type ServerMessage struct {
	BaseMessage
	Response     *Response      `json:"response,omitempty"`
	Message      *types.Message `json:"message,omitempty"`
	Notification *Notification  `json:"notification,omitempty"`
	SkipClient   *Client        `json:"-"`
}

type Response struct {
	ResponseCode int    `json:"response_code"`
	Error        string `json:"error,omitempty"`
	Data         any    `json:"data,omitempty"`
}

type Notification struct {
	Presence       *Presence          `json:"presence,omitempty"`
	UserJoined     *UserJoined        `json:"user_joined,omitempty"`
	RoomCreated    *types.RoomSummary `json:"room_created,omitempty"`
	UserRegistered *types.User        `json:"user_registered,omitempty"`
}

type Presence struct {
	UserId int  `json:"user_id"`
	Online bool `json:"online"`
}

type UserJoined struct {
	UserId int `json:"user_id"`
	RoomId int `json:"room_id"`
}

func NoErrOK(id int, data any) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusOK,
			Data:         data,
		},
	}
}

func NoErrAccepted(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusAccepted,
		},
	}
}

// ErrorResponse maps an action error to the structured response sent
// back to the originating connection.
func ErrorResponse(id int, err error) *ServerMessage {
	code, text := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, ErrInvalidPair):
		code, text = http.StatusBadRequest, ErrInvalidPair.Error()
	case errors.Is(err, ErrNotParticipant):
		code, text = http.StatusForbidden, ErrNotParticipant.Error()
	case errors.Is(err, ErrRoomNotFound):
		code, text = http.StatusNotFound, ErrRoomNotFound.Error()
	case errors.Is(err, ErrDuplicateConnection):
		code, text = http.StatusConflict, ErrDuplicateConnection.Error()
	case errors.Is(err, ErrRoomCreationFailed):
		code, text = http.StatusServiceUnavailable, ErrRoomCreationFailed.Error()
	case errors.Is(err, ErrStoreUnavailable):
		code, text = http.StatusServiceUnavailable, ErrStoreUnavailable.Error()
	}

	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: code,
			Error:        text,
		},
	}
}

func ErrServiceUnavailable(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusServiceUnavailable,
			Error:        "service unavailable",
		},
	}
}

func ErrInvalidMessage(id int) *ServerMessage {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        "invalid message format",
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
