package push

import (
	"encoding/json"
	"strconv"
)

const (
	MetaHandshake   = "/meta/handshake"
	MetaConnect     = "/meta/connect"
	MetaSubscribe   = "/meta/subscribe"
	MetaUnsubscribe = "/meta/unsubscribe"
	MetaDisconnect  = "/meta/disconnect"
)

const (
	ConnectionWebsocket       = "websocket"
	ConnectionLongPolling     = "long-polling"
	ConnectionCallbackPolling = "callback-polling"

	BayeuxVersion = "1.0"
)

// MessageId is the per channel frame counter. the server echoes it back,
// sometimes as a string, so decoding accepts both forms.
type MessageId int64

func (id *MessageId) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = MessageId(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// non numeric ids are not ours
		*id = 0
		return nil
	}
	*id = MessageId(n)
	return nil
}

type Advice struct {
	Timeout  *int `json:"timeout,omitempty"`
	Interval *int `json:"interval,omitempty"`
}

// Message is a single Bayeux frame, frames travel in json arrays.
type Message struct {
	Id                       MessageId       `json:"id"`
	Channel                  string          `json:"channel,omitempty"`
	ClientId                 string          `json:"clientId,omitempty"`
	Advice                   *Advice         `json:"advice,omitempty"`
	Ext                      map[string]any  `json:"ext,omitempty"`
	Version                  string          `json:"version,omitempty"`
	MinimumVersion           string          `json:"minimumVersion,omitempty"`
	SupportedConnectionTypes []string        `json:"supportedConnectionTypes,omitempty"`
	ConnectionType           string          `json:"connectionType,omitempty"`
	Subscription             string          `json:"subscription,omitempty"`
	Successful               *bool           `json:"successful,omitempty"`
	Error                    string          `json:"error,omitempty"`
	Data                     json.RawMessage `json:"data,omitempty"`
}

func intp(v int) *int {
	return &v
}

func handshakeMessage(token string) Message {
	return Message{
		Channel: MetaHandshake,
		Advice: &Advice{
			Timeout:  intp(60000),
			Interval: intp(0),
		},
		Ext:            map[string]any{"subscriptionId": token},
		Version:        BayeuxVersion,
		MinimumVersion: BayeuxVersion,
		SupportedConnectionTypes: []string{
			ConnectionWebsocket,
			ConnectionLongPolling,
			ConnectionCallbackPolling,
		},
	}
}

func connectMessage(clientId string) Message {
	return Message{
		Channel:        MetaConnect,
		ClientId:       clientId,
		Advice:         &Advice{Timeout: intp(0)},
		ConnectionType: ConnectionWebsocket,
	}
}

func subscribeMessage(clientId, subscription string) Message {
	return Message{
		Channel:      MetaSubscribe,
		ClientId:     clientId,
		Subscription: subscription,
	}
}

func disconnectMessage(clientId string) Message {
	return Message{
		Channel:  MetaDisconnect,
		ClientId: clientId,
	}
}
