package dbschema

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Conversation represents the database schema for conversations
type Conversation struct {
	BaseModel
	PublicID    string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID      uint    `gorm:"index:idx_conversations_user_updated_at;not null"`
	User        User    `gorm:"foreignKey:UserID"`
	Title       string  `gorm:"type:varchar(256);not null"`
	LastMessage *string `gorm:"type:varchar(256)"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// Message represents one stored turn line inside a conversation.
type Message struct {
	BaseModel
	PublicID       string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID uint           `gorm:"index:idx_messages_conversation_created_at;not null"`
	Role           string         `gorm:"type:varchar(20);not null"`
	Content        string         `gorm:"type:text;not null"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"`
}

// NewSchemaConversation creates a database schema from domain conversation
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	entity := &Conversation{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID: c.PublicID,
		UserID:   c.UserID,
		Title:    c.Title,
	}
	if c.LastMessage != "" {
		lastMessage := c.LastMessage
		entity.LastMessage = &lastMessage
	}
	return entity
}

// EtoD converts database schema to domain conversation (Entity to Domain)
func (c *Conversation) EtoD() *conversation.Conversation {
	conv := &conversation.Conversation{
		ID:        c.ID,
		PublicID:  c.PublicID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.LastMessage != nil {
		conv.LastMessage = *c.LastMessage
	}
	return conv
}

// NewSchemaMessage creates a database schema from a domain message.
func NewSchemaMessage(m *conversation.Message) (*Message, error) {
	entity := &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
	}

	if m.Metadata != nil {
		data, err := json.Marshal(m.Metadata)
		if err != nil {
			return nil, err
		}
		entity.Metadata = datatypes.JSON(data)
	}

	return entity, nil
}

// EtoD converts database schema to domain message (Entity to Domain)
func (m *Message) EtoD() (*conversation.Message, error) {
	msg := &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           conversation.Role(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}

	if len(m.Metadata) > 0 {
		var metadata conversation.MessageMetadata
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return nil, err
		}
		msg.Metadata = &metadata
	}

	return msg, nil
}
