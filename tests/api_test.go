package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"marketchat/internal/adapter/api"
	"marketchat/internal/adapter/api/handler"
	apimiddleware "marketchat/internal/adapter/api/middleware"
	"marketchat/internal/adapter/api/router"
	"marketchat/internal/adapter/repository"
	"marketchat/internal/domain/entity"
	"marketchat/internal/infrastructure/websocket"
	"marketchat/internal/usecase"
	"marketchat/pkg/response"
)

type staticVerifier struct {
	subjects map[string]string
}

func (v *staticVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	subject, ok := v.subjects[token]
	if !ok {
		return "", fmt.Errorf("invalid token")
	}
	return subject, nil
}

// newTestServer wires the HTTP stack the way cmd/api does, backed by the
// in-memory stores.
func newTestServer(t *testing.T) (*echo.Echo, *usecase.ChatUseCase) {
	t.Helper()

	userRepo := repository.NewMemoryUserRepository()
	userRepo.Seed(
		&entity.User{ID: "buyer", FirstName: "Budi", LastName: "Santoso"},
		&entity.User{ID: "seller", FirstName: "Sari", LastName: "Dewi"},
	)
	productRepo := repository.NewMemoryProductRepository()
	productRepo.Seed(&entity.Product{ID: "prod-1", SellerID: "seller", Title: "ML Account", Images: []string{"acc.png"}})

	verifier := &staticVerifier{subjects: map[string]string{
		"buyer-token":  "buyer",
		"seller-token": "seller",
	}}

	manager := websocket.NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	manager.Start(ctx)

	chatUseCase := usecase.NewChatUseCase(
		repository.NewMemoryRoomRepository(),
		repository.NewMemoryMessageRepository(),
		userRepo,
		productRepo,
		manager,
	)
	connectionUseCase := usecase.NewConnectionUseCase(verifier, userRepo, 0)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)
	router.SetupChatRouter(e, handler.NewChatHandler(chatUseCase), authMiddleware)
	router.SetupWebSocketRouter(e, handler.NewWebSocketHandler(manager, connectionUseCase, chatUseCase))

	return e, chatUseCase
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRoomListingThroughRouter(t *testing.T) {
	e, chatUseCase := newTestServer(t)

	_, err := chatUseCase.Send(context.Background(), "buyer", "conn-buyer", usecase.SendMessageInput{
		ProductID:   "prod-1",
		ReceiverID:  "seller",
		ChatContext: "product_inquiry",
		Body:        "is this still available?",
	})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("Authorization", "Bearer seller-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body response.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)

	rooms, ok := body.Data.([]interface{})
	assert.True(t, ok)
	assert.Len(t, rooms, 1)
}

func TestRoomEndpointsRequireAuth(t *testing.T) {
	e, _ := newTestServer(t)

	for name, header := range map[string]string{
		"missing header": "",
		"forged token":   "Bearer forged",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
