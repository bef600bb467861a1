package chat

import (
	"context"
	"log"
	"sync"

	"github.com/pairchat/go-pairchat/internal/database"
	"github.com/pairchat/go-pairchat/internal/stats"
	"github.com/pairchat/go-pairchat/internal/types"
)

// ChatServer is the realtime gateway. It owns the in-memory rosters
// (which connections exist, which user and room each belongs to) and
// coordinates the registry, directory and message store on every
// lifecycle event and client action. Each connection's read pump calls
// into it from its own goroutine; the rosters are the only shared
// state and are guarded by mu.
type ChatServer struct {
	log      *log.Logger
	stats    stats.StatsProvider
	registry *ConnectionRegistry
	rooms    *RoomDirectory
	messages *MessageStore
	presence *PresenceTracker

	mu          sync.RWMutex
	clients     map[*Client]struct{}
	userClients map[int]map[*Client]struct{}
	roomClients map[int]map[*Client]struct{}
}

func NewChatServer(logger *log.Logger, db database.PairChatRepository, su stats.StatsProvider) (*ChatServer, error) {
	registry := NewConnectionRegistry(logger, db)

	cs := &ChatServer{
		log:      logger,
		stats:    su,
		registry: registry,
		rooms:    NewRoomDirectory(logger, db),
		messages: NewMessageStore(logger, db),
		presence: NewPresenceTracker(registry),

		clients:     make(map[*Client]struct{}),
		userClients: make(map[int]map[*Client]struct{}),
		roomClients: make(map[int]map[*Client]struct{}),
	}

	su.RegisterMetric("NumActiveConnections")
	su.RegisterMetric("NumRoomSubscriptions")
	su.RegisterMetric("NumMessagesSent")
	su.RegisterMetric("NumPresenceEvents")

	return cs, nil
}

// Rooms exposes the room directory to the HTTP query handlers.
func (cs *ChatServer) Rooms() *RoomDirectory {
	return cs.rooms
}

// Messages exposes the message store to the HTTP query handlers.
func (cs *ChatServer) Messages() *MessageStore {
	return cs.messages
}

// Connect registers a newly established connection and announces the
// user to their online chat partners. Registration failures are logged
// and the connection proceeds without a presence broadcast; the
// transport handshake is never failed from here.
func (cs *ChatServer) Connect(ctx context.Context, c *Client) {
	cs.addClient(c)

	if _, err := cs.registry.Register(ctx, c.user.Id, c.connectionId); err != nil {
		cs.log.Printf("register connection %q for user %d: %v", c.connectionId, c.user.Id, err)
		return
	}

	cs.notifyPartners(ctx, c.user.Id, true)
}

// Disconnect tears the connection down. Presence is re-read after the
// registry deactivation; the offline broadcast only goes out when no
// other session keeps the user online. Failures along the way are
// logged and cleanup always completes.
func (cs *ChatServer) Disconnect(ctx context.Context, c *Client) {
	cs.removeClient(c)

	if err := cs.registry.Deactivate(ctx, c.connectionId); err != nil {
		cs.log.Printf("deactivate connection %q: %v", c.connectionId, err)
	}

	online, err := cs.presence.IsOnline(ctx, c.user.Id)
	if err != nil {
		cs.log.Printf("presence for user %d: %v", c.user.Id, err)
		return
	}
	if online {
		return
	}

	cs.notifyPartners(ctx, c.user.Id, false)
}

func (cs *ChatServer) notifyPartners(ctx context.Context, userId int, online bool) {
	partners, err := cs.rooms.PartnersOf(ctx, userId)
	if err != nil {
		cs.log.Printf("partners of user %d: %v", userId, err)
		return
	}

	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Notification: &Notification{
			Presence: &Presence{
				UserId: userId,
				Online: online,
			},
		},
	}

	for _, p := range partners {
		cs.sendToUser(p.Id, msg)
		cs.stats.Incr("NumPresenceEvents")
	}
}

func (cs *ChatServer) handleJoin(msg *ClientMessage) {
	ctx := context.Background()

	room, created, err := cs.rooms.CreateOrGet(ctx, msg.UserId, msg.Join.UserId)
	if err != nil {
		cs.log.Printf("create or get room for pair (%d, %d): %v", msg.UserId, msg.Join.UserId, err)
		msg.client.queueMessage(ErrorResponse(msg.Id, err))
		return
	}

	cs.subscribe(room.Id, msg.client)

	if created {
		summary, err := cs.rooms.Summary(ctx, room.Id)
		if err != nil {
			cs.log.Printf("summary for new room %d: %v", room.Id, err)
		} else {
			notif := &ServerMessage{
				BaseMessage: BaseMessage{
					Timestamp: Now(),
				},
				Notification: &Notification{
					RoomCreated: &summary,
				},
			}
			cs.sendToUser(room.UserId1, notif)
			cs.sendToUser(room.UserId2, notif)
		}
	}

	msg.client.queueMessage(NoErrOK(msg.Id, room))

	cs.broadcastToRoom(room.Id, &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Notification: &Notification{
			UserJoined: &UserJoined{
				UserId: msg.UserId,
				RoomId: room.Id,
			},
		},
	})
}

func (cs *ChatServer) handlePublish(msg *ClientMessage) {
	m, err := cs.messages.Append(context.Background(), msg.Publish.RoomId, msg.UserId, msg.Publish.Content)
	if err != nil {
		cs.log.Printf("append message to room %d: %v", msg.Publish.RoomId, err)
		msg.client.queueMessage(ErrorResponse(msg.Id, err))
		return
	}

	msg.client.queueMessage(NoErrAccepted(msg.Id))
	cs.stats.Incr("NumMessagesSent")

	// the whole group gets the message, the sender's own connections
	// included; clients are responsible for suppressing the echo
	cs.broadcastToRoom(m.RoomId, &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: m.Timestamp,
		},
		Message: &m,
	})
}

func (cs *ChatServer) handleHistory(msg *ClientMessage) {
	messages, err := cs.messages.HistoryFor(context.Background(), msg.History.RoomId)
	if err != nil {
		cs.log.Printf("history for room %d: %v", msg.History.RoomId, err)
		msg.client.queueMessage(ErrorResponse(msg.Id, err))
		return
	}

	msg.client.queueMessage(NoErrOK(msg.Id, messages))
}

// NotifyUserRegistered announces a freshly registered account to every
// connected client so user pickers update without a refresh.
func (cs *ChatServer) NotifyUserRegistered(user types.User) {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Notification: &Notification{
			UserRegistered: &user,
		},
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for c := range cs.clients {
		c.queueMessage(msg)
	}
}

func (cs *ChatServer) addClient(c *Client) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.clients[c] = struct{}{}
	if cs.userClients[c.user.Id] == nil {
		cs.userClients[c.user.Id] = make(map[*Client]struct{})
	}
	cs.userClients[c.user.Id][c] = struct{}{}

	cs.stats.Incr("NumActiveConnections")
}

func (cs *ChatServer) removeClient(c *Client) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.clients[c]; !ok {
		return
	}
	delete(cs.clients, c)

	if userClients, ok := cs.userClients[c.user.Id]; ok {
		delete(userClients, c)
		if len(userClients) == 0 {
			delete(cs.userClients, c.user.Id)
		}
	}

	for roomId := range c.roomIds() {
		if roomClients, ok := cs.roomClients[roomId]; ok {
			delete(roomClients, c)
			if len(roomClients) == 0 {
				delete(cs.roomClients, roomId)
			}
			cs.stats.Decr("NumRoomSubscriptions")
		}
	}

	cs.stats.Decr("NumActiveConnections")
}

// subscribe adds the connection to the room's broadcast group.
func (cs *ChatServer) subscribe(roomId int, c *Client) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.roomClients[roomId] == nil {
		cs.roomClients[roomId] = make(map[*Client]struct{})
	}
	if _, ok := cs.roomClients[roomId][c]; ok {
		return
	}

	cs.roomClients[roomId][c] = struct{}{}
	c.addRoom(roomId)

	cs.stats.Incr("NumRoomSubscriptions")
}

func (cs *ChatServer) broadcastToRoom(roomId int, msg *ServerMessage) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for c := range cs.roomClients[roomId] {
		if c == msg.SkipClient {
			continue
		}

		c.queueMessage(msg)
	}
}

func (cs *ChatServer) sendToUser(userId int, msg *ServerMessage) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for c := range cs.userClients[userId] {
		c.queueMessage(msg)
	}
}

// Shutdown stops every connected client. The write pumps observe the
// closed stop channels and close their sockets.
func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.log.Println("shutting down chat server")

	cs.mu.Lock()
	defer cs.mu.Unlock()

	for c := range cs.clients {
		c.stopClient()
	}

	return ctx.Err()
}
