package fastagi

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/dialplanio/fastagi/command"
)

// DigestSecretVariable is the channel variable a dialplan must Set()
// before routing a call into a server protected by SHA1DigestLayer.
const DigestSecretVariable = "FASTAGI_DIGEST_SECRET"

// SHA1DigestLayer is a challenge-response Layer that verifies the
// connecting channel knows a shared secret before letting the wrapped
// handler run. It issues GET FULL VARIABLE for
// "${SHA1(${FASTAGI_DIGEST_SECRET}:<nonce>)}", which Asterisk evaluates
// using the channel's own FASTAGI_DIGEST_SECRET variable, and compares the
// result against the same digest computed locally from Secret.
//
// The nonce is freshly generated per call so a replayed digest can never
// authenticate a second time.
type SHA1DigestLayer struct {
	Secret string
}

// Wrap implements Layer.
func (l SHA1DigestLayer) Wrap(handler AGIHandler) AGIHandler {
	return HandlerFunc(func(ctx context.Context, conn *Connection, req *AGIRequest) error {
		nonce := uuid.NewString()
		expr := fmt.Sprintf("${SHA1(${%s}:%s)}", DigestSecretVariable, nonce)

		resp, err := SendCommand(ctx, conn, command.GetFullVariable{Expression: expr})
		if err != nil {
			return err
		}
		if resp.Kind != command.ResponseOk || resp.Value.Value == nil {
			return NewClientSideError(fmt.Sprintf("channel did not set %s", DigestSecretVariable))
		}

		sum := sha1.Sum([]byte(l.Secret + ":" + nonce))
		expected := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(expected), []byte(*resp.Value.Value)) != 1 {
			return NewInnerError(fmt.Errorf("fastagi: digest challenge failed"))
		}

		return handler.Handle(ctx, conn, req)
	})
}
