package status

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/additive"
)

const (
	INFO = iota
	ERROR
	PROGRESS
)

type status struct {
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
	Type     int       `json:"type"`
	Progress float32   `json:"progress"`
	Run      string    `json:"run,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second)); err != nil {
				log.Printf("[status] ws deadline error: %v", err)
				return
			}
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

// readPump drains control frames and drops the client once the peer goes away.
func (c *client) readPump() {
	defer func() {
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// NewClient registers conn as a status listener and sends it the last status.
func NewClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	go c.readPump()
	globalLock.Lock()
	defer globalLock.Unlock()
	if lastMessage != nil {
		c.send <- lastMessage
	}
	return c
}

var statusBroadcast chan *status
var broadcastList map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte = nil

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	broadcastList[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(broadcastList, c)
}

func init() {
	statusBroadcast = make(chan *status, 16)
	broadcastList = make(map[*client]bool)
	go func() {
		for s := range statusBroadcast {
			data, err := json.Marshal(s)
			if err != nil {
				log.Errorf("[status] marshal: %v", err)
				continue
			}
			globalLock.Lock()
			lastMessage = data
			for c := range broadcastList {
				select {
				case c.send <- data:
				default:
					log.Warnf("[status] client %v is too slow, message dropped", c.conn.RemoteAddr())
				}
			}
			globalLock.Unlock()
		}
	}()
}

func send(s *status) {
	if math.IsNaN(float64(s.Progress)) || math.IsInf(float64(s.Progress), 0) {
		s.Progress = 0
	}
	s.Time = time.Now()
	statusBroadcast <- s
}

func Status(msg string, _type int, progress float32) {
	send(&status{Message: msg, Type: _type, Progress: progress})
}

func Info(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), INFO, 0.0)
}

func Error(format string, a ...interface{}) {
	Status(fmt.Sprintf(format, a...), ERROR, 0.0)
}

// Observer reports additive pipeline transitions as progress.
func Observer(t additive.Transition) {
	s := &status{Run: t.Run, Type: PROGRESS}
	switch {
	case t.Err != nil:
		s.Type = ERROR
		s.Message = fmt.Sprintf("additive %v failed: %v", t.From, t.Err)
	case t.To == additive.Done:
		s.Type = INFO
		s.Progress = 1
		s.Message = "additive done"
	default:
		s.Progress = float32(t.To) / float32(additive.Done)
		s.Message = "additive: " + t.To.String()
		if t.Take != "" {
			s.Message += fmt.Sprintf(" %q", t.Take)
		}
	}
	send(s)
}
