package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

func TestHTTPExistenceChecker(t *testing.T) {
	tests := []struct {
		name    string
		resp    *mockResponse
		err     error
		want    bool
		wantErr bool
	}{
		{name: "200 exists", resp: &mockResponse{statusCode: 200, body: "ok"}, want: true},
		{name: "404 does not exist", resp: &mockResponse{statusCode: 404}, want: false},
		{name: "301 is not 200", resp: &mockResponse{statusCode: 301}, want: false},
		{name: "transport error surfaces", err: errors.New("dial tcp: timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockHTTPClient{getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
				if _, ok := ctx.Deadline(); !ok {
					t.Error("existence check should carry a deadline")
				}
				if tt.err != nil {
					return nil, tt.err
				}
				return tt.resp, nil
			}}
			checker := NewHTTPExistenceChecker(client, time.Second)

			got, err := checker.Exists(context.Background(), domain.Candidate{URL: "https://example.com/a"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
