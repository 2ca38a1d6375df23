package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestRedactForm(t *testing.T) {
	redacted := RedactForm("j_username=alice&j_password=hunter2")
	form, err := url.ParseQuery(redacted)
	require.NoError(t, err)
	require.Equal(t, "alice", form.Get("j_username"))
	require.Equal(t, "<redacted>", form.Get("j_password"))

	require.Equal(t, "query=abc", RedactForm("query=abc"))
	require.Equal(t, `{"a":1}`, RedactForm(`{"a":1}`))
}

func TestSetupWithoutEndpointsIsNoop(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestInstrumentResty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html></html>")
	}))
	defer srv.Close()

	client := resty.New().SetBaseURL(srv.URL)
	InstrumentResty(client, "test:telemetry/resty")

	res, err := client.R().Get("/mina-sidor/kontooversikt.html")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	res, err = client.R().
		SetFormData(map[string]string{"j_username": "alice", "j_password": "hunter2"}).
		Post("/ab/handlelogin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}
