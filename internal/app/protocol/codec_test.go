package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chatlink/internal/pkg/errs"
)

func TestEncode_WireShape(t *testing.T) {
	req := require.New(t)

	req.Equal(
		`{"messageType":"register","dataArray":null,"data":"alice"}`,
		Encode(Register{Username: "alice"}),
	)
	req.Equal(
		`{"messageType":"message","dataArray":null,"data":"  hi <b>  "}`,
		Encode(NewMessage("  hi <b>  ")),
	)
	req.Equal(
		`{"messageType":"users","dataArray":["alice","bob"],"data":null}`,
		Encode(Users{Names: []string{"alice", "bob"}}),
	)
	req.Equal(
		`{"messageType":"users","dataArray":[],"data":null}`,
		Encode(Users{}),
	)
	req.Equal(
		`{"messageType":"message","dataArray":null,"data":null}`,
		Encode(Message{}),
	)
}

func TestEncodeChatMessage(t *testing.T) {
	req := require.New(t)

	req.Equal(`{"from":"bob","message":"hi"}`, EncodeChatMessage(ChatMessage{From: "bob", Text: "hi"}))
}

func TestDecode_Variants(t *testing.T) {
	t.Run("users keeps order", func(t *testing.T) {
		req := require.New(t)

		env, err := Decode(`{"messageType":"users","dataArray":["carol","alice","bob"]}`)

		req.NoError(err)
		req.Equal(Users{Names: []string{"carol", "alice", "bob"}}, env)
	})

	t.Run("users with empty list", func(t *testing.T) {
		req := require.New(t)

		env, err := Decode(`{"messageType":"users","dataArray":[],"data":null}`)

		req.NoError(err)
		req.Equal(Users{Names: []string{}}, env)
	})

	t.Run("register", func(t *testing.T) {
		req := require.New(t)

		env, err := Decode(`{"messageType":"register","data":"alice","dataArray":null}`)

		req.NoError(err)
		req.Equal(Register{Username: "alice"}, env)
	})

	t.Run("message with relayed payload", func(t *testing.T) {
		req := require.New(t)

		env, err := Decode(`{"messageType":"message","data":"{\"from\":\"bob\",\"message\":\"hi\"}"}`)
		req.NoError(err)

		msg, ok := env.(Message)
		req.True(ok)
		cm, present, err := msg.ChatMessage()
		req.NoError(err)
		req.True(present)
		req.Equal(ChatMessage{From: "bob", Text: "hi"}, cm)
	})

	t.Run("message without data", func(t *testing.T) {
		req := require.New(t)

		env, err := Decode(`{"messageType":"message","data":null}`)
		req.NoError(err)

		_, present, err := env.(Message).ChatMessage()
		req.NoError(err)
		req.False(present)
	})
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		code  int
	}{
		{"not json", `hello`, errs.ErrMalformedFrame},
		{"truncated", `{"messageType":"users"`, errs.ErrMalformedFrame},
		{"array frame", `["users"]`, errs.ErrMalformedFrame},
		{"null frame", `null`, errs.ErrMalformedFrame},
		{"trailing data", `{"messageType":"message"} {}`, errs.ErrMalformedFrame},
		{"trailing brace", `{"messageType":"register","data":"x"}}`, errs.ErrMalformedFrame},
		{"trailing bracket", `{"messageType":"register","data":"x"}]`, errs.ErrMalformedFrame},
		{"duplicate tag", `{"messageType":"users","messageType":"register","data":"x","dataArray":[]}`, errs.ErrMalformedFrame},
		{"missing tag", `{"data":"x"}`, errs.ErrUnknownMessageType},
		{"numeric tag", `{"messageType":3}`, errs.ErrUnknownMessageType},
		{"unknown tag", `{"messageType":"typing"}`, errs.ErrUnknownMessageType},
		{"tag is case sensitive", `{"messageType":"Users","dataArray":[]}`, errs.ErrUnknownMessageType},
		{"field name is case sensitive", `{"MessageType":"users","dataArray":[]}`, errs.ErrUnknownMessageType},
		{"users without list", `{"messageType":"users"}`, errs.ErrInvalidPayload},
		{"users with snake case list", `{"messageType":"users","data_array":["a"]}`, errs.ErrInvalidPayload},
		{"users list mistyped", `{"messageType":"users","dataArray":"alice"}`, errs.ErrInvalidPayload},
		{"users list with number", `{"messageType":"users","dataArray":["alice",2]}`, errs.ErrInvalidPayload},
		{"users list with null", `{"messageType":"users","dataArray":["alice",null]}`, errs.ErrInvalidPayload},
		{"register without name", `{"messageType":"register"}`, errs.ErrInvalidPayload},
		{"message data mistyped", `{"messageType":"message","data":{"from":"bob"}}`, errs.ErrInvalidPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			env, err := Decode(tc.frame)

			req.Nil(env)
			req.Error(err)
			req.True(errs.IsDecode(err))
			req.Equal(tc.code, errs.CodeOf(err))
		})
	}
}

func TestDecodeChatMessage_Errors(t *testing.T) {
	frames := []string{
		`not json`,
		`{"from":"bob"}`,
		`{"message":"hi"}`,
		`{"from":1,"message":"hi"}`,
		`{"From":"bob","Message":"hi"}`,
		`{"from":"bob","message":"hi"}}`,
		`{"from":"bob","message":"hi"}]`,
		`{"from":"bob","from":"eve","message":"hi"}`,
	}

	for _, frame := range frames {
		t.Run(frame, func(t *testing.T) {
			req := require.New(t)

			_, err := DecodeChatMessage(frame)

			req.Equal(errs.ErrMalformedChatMessage, errs.CodeOf(err))
		})
	}
}

func TestRoundTrip_RelayedMessage(t *testing.T) {
	req := require.New(t)
	cm := ChatMessage{From: "bob", Text: "quote \" and <tag>"}

	env, err := Decode(Encode(NewRelayedMessage(cm)))
	req.NoError(err)

	got, present, err := env.(Message).ChatMessage()
	req.NoError(err)
	req.True(present)
	req.Equal(cm, got)
}
