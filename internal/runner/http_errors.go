package runner

import (
	"errors"
	"net/http"

	"github.com/topcoder-platform/topcoder-cli/client"
)

// uploadStatusMessages maps the statuses with a dedicated explanation.
var uploadStatusMessages = map[int]string{
	http.StatusUnauthorized: client.InvalidCredentialsErrorMessage,
}

func formatUploadError(err error) string {
	if msg, ok := uploadStatusMessages[client.StatusCode(err)]; ok {
		return msg
	}
	if errors.Is(err, client.ErrConnection) {
		return client.ConnectionErrorMessage
	}
	return err.Error()
}
