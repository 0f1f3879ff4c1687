package usecase

import (
	"context"
	"strings"
	"time"

	"marketchat/internal/domain/entity"
	"marketchat/internal/domain/repository"
	ws "marketchat/internal/infrastructure/websocket"
	"marketchat/pkg/errors"
	"marketchat/pkg/logger"
)

// ConnectionPusher delivers payloads to live connections. Implemented by the
// websocket manager.
type ConnectionPusher interface {
	SendToConnection(connectionID string, payload []byte) bool
	IsConnected(connectionID string) bool
}

type ChatUseCase struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	pusher      ConnectionPusher
}

func NewChatUseCase(
	roomRepo repository.RoomRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	pusher ConnectionPusher,
) *ChatUseCase {
	return &ChatUseCase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		pusher:      pusher,
	}
}

type SendMessageInput struct {
	ProductID   string
	ReceiverID  string
	ChatContext string
	Body        string
}

type SendResult struct {
	Message   *entity.Message `json:"message"`
	Room      *entity.Room    `json:"room"`
	Delivered bool            `json:"delivered"`
}

// Send runs the full message path: validate, resolve or create the room,
// persist the message, refresh the room summary, then push to the
// receiver's live connection if there is one. The sender identity comes
// from the authenticated connection, never from the payload.
func (uc *ChatUseCase) Send(ctx context.Context, senderID, senderConnectionID string, input SendMessageInput) (*SendResult, error) {
	productID, err := entity.ParseProductID(input.ProductID)
	if err != nil {
		return nil, err
	}
	receiverID, err := entity.ParseUserID(input.ReceiverID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, errors.Validation("message body must not be empty", nil)
	}
	chatContext := strings.TrimSpace(input.ChatContext)
	if chatContext == "" {
		return nil, errors.Validation("chat context must not be empty", nil)
	}
	if receiverID == senderID {
		return nil, errors.BadRequest("You cannot send a message to yourself", nil)
	}

	room, created, err := uc.resolveRoom(ctx, senderID, receiverID, productID, chatContext, body)
	if err != nil {
		return nil, err
	}

	// Presence is resolved before the append so a receiver already online
	// gets the message written as DELIVERED directly.
	receiver, err := uc.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.NotFound("Receiver", err)
		}
		logger.Error("Send: failed to load receiver %s: %v", receiverID, err)
		return nil, errors.Internal("Failed to send message", err)
	}

	live := receiver.ConnectionID != "" && uc.pusher.IsConnected(receiver.ConnectionID)

	initialStatus := entity.StatusSent
	if live {
		initialStatus = entity.StatusDelivered
	}

	message := &entity.Message{
		RoomID:         room.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		ContentType:    entity.ContentTypeText,
		Body:           body,
		DeliveryStatus: initialStatus,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		logger.Error("Send: failed to persist message in room %s: %v", room.ID, err)
		return nil, errors.Internal("Failed to send message", err)
	}

	// A freshly created room already carries the body as its summary.
	if !created {
		if err := uc.roomRepo.UpdateLatestMessage(ctx, room.ID, body); err != nil {
			logger.Error("Send: failed to update summary for room %s: %v", room.ID, err)
			return nil, errors.Internal("Failed to send message", err)
		}
	}

	// Delivery only starts once the message is durably persisted.
	delivered := false
	if live {
		payload, err := ws.Marshal(ws.EventReceiveMessage, ws.ReceiveMessagePayload{
			ProductServiceID: productID,
			SenderID:         senderID,
			SenderSocketID:   senderConnectionID,
			RoomID:           room.ID,
			// The receiver sees the context this send was made under, even
			// when the room was minted under a different one.
			ChatContext:      chatContext,
			Message:          body,
			MessageID:        message.ID,
			DeliveryStatus:   string(message.DeliveryStatus),
		})
		if err != nil {
			logger.Error("Send: failed to encode receive_message for %s: %v", message.ID, err)
		} else {
			delivered = uc.pusher.SendToConnection(receiver.ConnectionID, payload)
		}
		if !delivered {
			// The receiver went away between the presence check and the
			// push; the persisted record keeps the message recoverable.
			logger.Warn("Send: receiver %s unreachable on connection %s", receiverID, receiver.ConnectionID)
		}
	}

	return &SendResult{Message: message, Room: room, Delivered: delivered}, nil
}

// resolveRoom finds the canonical room for the pair, probing both stored
// directions, and creates it on the first message. Concurrent first sends
// can still race into a duplicate; the lookup order keeps that window
// narrow and listings remain correct.
func (uc *ChatUseCase) resolveRoom(ctx context.Context, senderID, receiverID, productID, chatContext, initialSummary string) (*entity.Room, bool, error) {
	room, err := uc.roomRepo.GetByParticipants(ctx, senderID, receiverID, productID)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Error("Send: room lookup failed for %s/%s/%s: %v", senderID, receiverID, productID, err)
		return nil, false, errors.Internal("Failed to send message", err)
	}

	room, err = uc.roomRepo.GetByParticipants(ctx, receiverID, senderID, productID)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Error("Send: reverse room lookup failed for %s/%s/%s: %v", receiverID, senderID, productID, err)
		return nil, false, errors.Internal("Failed to send message", err)
	}

	room = &entity.Room{
		SenderID:      senderID,
		ReceiverID:    receiverID,
		ProductID:     productID,
		ChatContext:   chatContext,
		LatestMessage: initialSummary,
	}
	if err := uc.roomRepo.Create(ctx, room); err != nil {
		logger.Error("Send: failed to create room for %s/%s/%s: %v", senderID, receiverID, productID, err)
		return nil, false, errors.Internal("Failed to send message", err)
	}

	return room, true, nil
}

// ListRooms returns the user's room summaries ascending by last update,
// joined with counterpart display names and product thumbnails in one
// batched fetch per collaborator.
func (uc *ChatUseCase) ListRooms(ctx context.Context, userID string) ([]*entity.RoomSummary, error) {
	rooms, err := uc.roomRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(rooms)*2)
	productIDs := make([]string, 0, len(rooms))
	seenUsers := make(map[string]bool)
	seenProducts := make(map[string]bool)
	for _, room := range rooms {
		for _, id := range []string{room.SenderID, room.ReceiverID} {
			if !seenUsers[id] {
				seenUsers[id] = true
				userIDs = append(userIDs, id)
			}
		}
		if !seenProducts[room.ProductID] {
			seenProducts[room.ProductID] = true
			productIDs = append(productIDs, room.ProductID)
		}
	}

	users, err := uc.userRepo.GetMany(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.GetMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]*entity.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summary := &entity.RoomSummary{
			ID:            room.ID,
			ProductID:     room.ProductID,
			ChatContext:   room.ChatContext,
			LatestMessage: room.LatestMessage,
			SenderID:      room.SenderID,
			ReceiverID:    room.ReceiverID,
			UpdatedAt:     room.UpdatedAt,
		}
		if sender, ok := users[room.SenderID]; ok {
			summary.SenderName = sender.DisplayName()
		}
		if receiver, ok := users[room.ReceiverID]; ok {
			summary.ReceiverName = receiver.DisplayName()
		}
		if product, ok := products[room.ProductID]; ok {
			summary.ProductImages = product.Images
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// RoomMessages lists a room's messages in creation order for one of its
// participants. Messages addressed to the fetching user that are still at
// SENT are promoted to DELIVERED on the way out; that is how delivery
// resumes for a receiver who was offline at send time.
func (uc *ChatUseCase) RoomMessages(ctx context.Context, userID, roomID string) ([]*entity.Message, error) {
	rid, err := entity.ParseRoomID(roomID)
	if err != nil {
		return nil, err
	}

	room, err := uc.roomRepo.GetByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant of this room", nil)
	}

	messages, err := uc.messageRepo.ListByRoom(ctx, rid)
	if err != nil {
		return nil, err
	}

	for _, message := range messages {
		if message.ReceiverID == userID && message.DeliveryStatus == entity.StatusSent {
			if err := uc.messageRepo.UpdateStatus(ctx, message.ID, entity.StatusDelivered); err != nil {
				logger.Warn("RoomMessages: failed to promote message %s to DELIVERED: %v", message.ID, err)
				continue
			}
			message.DeliveryStatus = entity.StatusDelivered
		}
	}

	return messages, nil
}

// MarkMessagesRead stamps the given messages READ for a room participant.
func (uc *ChatUseCase) MarkMessagesRead(ctx context.Context, userID, roomID string, messageIDs []string) error {
	rid, err := entity.ParseRoomID(roomID)
	if err != nil {
		return err
	}
	if len(messageIDs) == 0 {
		return errors.Validation("missing message ids", nil)
	}

	ids := make([]string, 0, len(messageIDs))
	for _, raw := range messageIDs {
		id, err := entity.ParseMessageID(raw)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	room, err := uc.roomRepo.GetByID(ctx, rid)
	if err != nil {
		return err
	}
	if !room.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant of this room", nil)
	}

	return uc.messageRepo.MarkManyRead(ctx, ids, time.Now())
}
