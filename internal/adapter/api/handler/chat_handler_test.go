package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"marketchat/internal/adapter/api"
	"marketchat/internal/adapter/repository"
	"marketchat/internal/domain/entity"
	"marketchat/internal/usecase"
	"marketchat/pkg/response"
)

// offlinePusher reports every connection offline; the HTTP endpoints never
// push, so the handlers only need the interface satisfied.
type offlinePusher struct{}

func (offlinePusher) IsConnected(string) bool              { return false }
func (offlinePusher) SendToConnection(string, []byte) bool { return false }

type handlerFixture struct {
	echo    *echo.Echo
	handler *ChatHandler
	chatUC  *usecase.ChatUseCase
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	userRepo := repository.NewMemoryUserRepository()
	userRepo.Seed(
		&entity.User{ID: "buyer", FirstName: "Budi"},
		&entity.User{ID: "seller", FirstName: "Sari"},
	)
	productRepo := repository.NewMemoryProductRepository()
	productRepo.Seed(&entity.Product{ID: "prod-1", SellerID: "seller", Title: "ML Account"})

	chatUC := usecase.NewChatUseCase(
		repository.NewMemoryRoomRepository(),
		repository.NewMemoryMessageRepository(),
		userRepo,
		productRepo,
		offlinePusher{},
	)

	e := echo.New()
	e.Validator = api.NewValidator()

	return &handlerFixture{
		echo:    e,
		handler: NewChatHandler(chatUC),
		chatUC:  chatUC,
	}
}

func (f *handlerFixture) seedConversation(t *testing.T) *usecase.SendResult {
	t.Helper()
	result, err := f.chatUC.Send(context.Background(), "buyer", "conn-buyer", usecase.SendMessageInput{
		ProductID:   "prod-1",
		ReceiverID:  "seller",
		ChatContext: "product_inquiry",
		Body:        "is this still available?",
	})
	assert.NoError(t, err)
	return result
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListRoomsHandler(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedConversation(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.Set("uid", "seller")

	assert.NoError(t, f.handler.ListRooms(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.True(t, body.Success)

	rooms, ok := body.Data.([]interface{})
	assert.True(t, ok)
	assert.Len(t, rooms, 1)
}

func TestRoomMessagesHandler(t *testing.T) {
	f := newHandlerFixture(t)
	result := f.seedConversation(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/"+result.Room.ID+"/messages", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(result.Room.ID)
	c.Set("uid", "seller")

	assert.NoError(t, f.handler.RoomMessages(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.True(t, body.Success)

	messages, ok := body.Data.([]interface{})
	assert.True(t, ok)
	assert.Len(t, messages, 1)

	first, ok := messages[0].(map[string]interface{})
	assert.True(t, ok)
	// The receiver's fetch settles delivery for the offline period.
	assert.Equal(t, string(entity.StatusDelivered), first["delivery_status"])
}

func TestRoomMessagesHandlerForbidden(t *testing.T) {
	f := newHandlerFixture(t)
	result := f.seedConversation(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/"+result.Room.ID+"/messages", nil)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(result.Room.ID)
	c.Set("uid", "lurker")

	assert.NoError(t, f.handler.RoomMessages(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeResponse(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestMarkReadHandler(t *testing.T) {
	f := newHandlerFixture(t)
	result := f.seedConversation(t)

	payload := `{"message_ids":["` + result.Message.ID + `"]}`
	req := httptest.NewRequest(http.MethodPut, "/v1/rooms/"+result.Room.ID+"/read", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(result.Room.ID)
	c.Set("uid", "seller")

	assert.NoError(t, f.handler.MarkRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	messages, err := f.chatUC.RoomMessages(context.Background(), "seller", result.Room.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.StatusRead, messages[0].DeliveryStatus)
}

func TestMarkReadHandlerRejectsEmptyList(t *testing.T) {
	f := newHandlerFixture(t)
	result := f.seedConversation(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/rooms/"+result.Room.ID+"/read", strings.NewReader(`{"message_ids":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(result.Room.ID)
	c.Set("uid", "seller")

	assert.NoError(t, f.handler.MarkRead(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeResponse(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}
