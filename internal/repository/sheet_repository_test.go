package repository_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sheet"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type recordedCall struct {
	method string
	action string
	body   map[string]any
}

func newSheetServer(t *testing.T, reply func(call recordedCall) string) (*sheet.Client, *[]recordedCall) {
	t.Helper()
	calls := []recordedCall{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, action: r.URL.Query().Get("action")}
		if r.Method == http.MethodPost {
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &call.body))
			call.action, _ = call.body["action"].(string)
		}
		calls = append(calls, call)
		_, _ = w.Write([]byte(reply(call)))
	}))
	t.Cleanup(server.Close)
	return sheet.NewClientWithHTTP(server.URL, server.Client(), nil), &calls
}

func TestSheetRequestRepository_List(t *testing.T) {
	client, calls := newSheetServer(t, func(recordedCall) string {
		return `{"success":true,"data":[
            {"Id":1,"Timestamp":"2024-06-01T09:00:00Z","Nama":"Budi","Divisi":"Audit","Masalah":"Laptop","Kategori":"Perangkat Keras","PIC":"Andi","Status":"Sedang Dikerjakan"},
            {"id":"2","timestamp":"2024-06-02 10:00:00","nama":"Sari","divisi":"HR","masalah":"Email","kategori":"Perangkat Lunak","status":"done"},
            {"Id":3,"Timestamp":"bukan tanggal"}
        ]}`
	})

	tickets, err := repository.NewSheetRequestRepository(client, time.UTC).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, domain.TicketStatusInProgress, tickets[0].Status)
	assert.Equal(t, domain.TicketStatusDone, tickets[1].Status)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
	assert.Empty(t, (*calls)[0].action)
}

func TestSheetRequestRepository_Writes(t *testing.T) {
	client, calls := newSheetServer(t, func(call recordedCall) string {
		if call.action == sheet.ActionAddRequest {
			return `{"success":true,"id":12}`
		}
		return `{"success":true}`
	})
	repo := repository.NewSheetRequestRepository(client, time.UTC)
	ctx := context.Background()

	id, err := repo.Create(ctx, repository.NewTicket{Name: "Budi", Division: "Audit", Problem: "Laptop mati", Category: domain.TicketCategoryHardware})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	notes := "ganti baterai"
	require.NoError(t, repo.Update(ctx, 12, repository.TicketUpdate{Notes: &notes}))
	require.NoError(t, repo.Delete(ctx, 12))

	require.Len(t, *calls, 3)
	created := (*calls)[0].body["data"].(map[string]any)
	assert.Equal(t, "Perangkat Keras", created["category"])
	assert.Equal(t, "Budi", created["name"])

	updated := (*calls)[1]
	assert.Equal(t, sheet.ActionUpdateRequest, updated.action)
	assert.Equal(t, float64(12), updated.body["id"])
	assert.Equal(t, map[string]any{"notes": "ganti baterai"}, updated.body["data"])

	assert.Equal(t, sheet.ActionDeleteRequest, (*calls)[2].action)
}

func TestSheetRequestRepository_ScriptFailure(t *testing.T) {
	client, _ := newSheetServer(t, func(recordedCall) string {
		return `{"success":false,"message":"ID tidak ditemukan"}`
	})

	err := repository.NewSheetRequestRepository(client, time.UTC).Delete(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeScript))
	assert.Contains(t, err.Error(), "ID tidak ditemukan")
}

func TestSheetUserRepository_Authenticate(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantUser bool
	}{
		{
			name:     "matched",
			reply:    `{"success":true,"user":{"Id":2,"Username":"riset","Name":"Divisi Riset","Role":"pengguna","Division":"Riset"}}`,
			wantUser: true,
		},
		{
			name:  "no user echoed",
			reply: `{"success":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := newSheetServer(t, func(recordedCall) string { return tt.reply })

			user, err := repository.NewSheetUserRepository(client).Authenticate(context.Background(), "riset", "abc123")
			require.NoError(t, err)
			assert.Equal(t, sheet.ActionLogin, (*calls)[0].action)
			assert.Equal(t, "abc123", (*calls)[0].body["password"])
			if !tt.wantUser {
				assert.Nil(t, user)
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, int64(2), user.ID)
			assert.Equal(t, domain.RoleRegularUser, user.Role)
		})
	}
}

func TestSheetUserRepository_CreateMergesEcho(t *testing.T) {
	client, calls := newSheetServer(t, func(recordedCall) string {
		return `{"success":true,"data":{"id":9,"username":"riset","name":"Divisi Riset","division":"Riset","password":"abc123","role":"Admin"}}`
	})

	user, err := repository.NewSheetUserRepository(client).Create(context.Background(), repository.NewUser{
		ID: 5, Name: "Divisi Riset", Division: "Riset", Username: "riset", Password: "abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, domain.RoleRegularUser, user.Role)

	sent := (*calls)[0].body["data"].(map[string]any)
	assert.Equal(t, float64(5), sent["id"])
	assert.Equal(t, "riset", sent["username"])
}

func TestSheetUserRepository_ListUsesGetUsers(t *testing.T) {
	client, calls := newSheetServer(t, func(recordedCall) string {
		return `{"success":true,"data":[{"id":1,"username":"admin","role":"Admin"},{"id":2,"username":"audit","role":"Pengguna","division":"Audit"}]}`
	})

	users, err := repository.NewSheetUserRepository(client).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin())
	assert.Equal(t, sheet.ActionGetUsers, (*calls)[0].action)
}
