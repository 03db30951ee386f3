package store

import (
	"testing"

	"github.com/parleyhq/parley/internal/models"
)

func TestCreateConversation_OwnerParticipant(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")

	conv := seedConversation(t, db, "general", user.ID)

	participants, err := ListParticipants(db, conv.ID)
	if err != nil {
		t.Fatalf("ListParticipants: %v", err)
	}
	if len(participants) != 1 {
		t.Fatalf("participants = %d, want exactly 1", len(participants))
	}
	p := participants[0]
	if p.Role != models.RoleOwner {
		t.Errorf("role = %q, want owner", p.Role)
	}
	if p.UserID == nil || *p.UserID != user.ID {
		t.Errorf("UserID = %v, want %d", p.UserID, user.ID)
	}
}

func TestCreateConversation_Validation(t *testing.T) {
	db := testDB(t)
	if _, err := CreateConversation(db, "", "", 1); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := CreateConversation(db, "t", "", 0); err == nil {
		t.Error("missing creator accepted")
	}
}

func TestDeactivateConversation_CascadesToMessages(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	conv := seedConversation(t, db, "general", user.ID)

	msg, err := CreateUserMessage(db, conv.ID, user.ID, "hello")
	if err != nil {
		t.Fatalf("CreateUserMessage: %v", err)
	}

	if err := DeactivateConversation(db, conv.ID, user.ID); err != nil {
		t.Fatalf("DeactivateConversation: %v", err)
	}
	if _, err := GetConversation(db, conv.ID); err == nil {
		t.Error("deactivated conversation still retrievable")
	}
	if _, err := GetMessage(db, msg.ID); err == nil {
		t.Error("message survived conversation soft delete")
	}
}

func TestDeactivateConversation_CreatorOnly(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	mallory := seedUser(t, db, "mallory")
	conv := seedConversation(t, db, "general", alice.ID)

	if err := DeactivateConversation(db, conv.ID, mallory.ID); err == nil {
		t.Error("non-creator delete accepted")
	}
}

func TestListUserConversations(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	c1 := seedConversation(t, db, "alice one", alice.ID)
	seedConversation(t, db, "bob only", bob.ID)

	if _, err := AddUserParticipant(db, c1.ID, bob.ID, ""); err != nil {
		t.Fatalf("AddUserParticipant: %v", err)
	}

	convs, err := ListUserConversations(db, bob.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListUserConversations: %v", err)
	}
	if len(convs) != 2 {
		t.Errorf("bob sees %d conversations, want 2", len(convs))
	}

	convs, err = ListUserConversations(db, alice.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListUserConversations: %v", err)
	}
	if len(convs) != 1 || convs[0].Title != "alice one" {
		t.Errorf("alice sees %+v", convs)
	}
}
