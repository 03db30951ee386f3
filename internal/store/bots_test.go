package store

import (
	"strings"
	"testing"
)

func TestCreateBot_Defaults(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")

	bot, err := CreateBot(db, BotCreate{Name: "helper", DisplayName: "Helper", CreatedByID: user.ID})
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	if bot.ModelName != "gpt-4o-mini" || bot.Provider != "openai" {
		t.Errorf("defaults = %s/%s", bot.ModelName, bot.Provider)
	}
	if bot.Temperature != 70 || bot.MaxTokens != 1000 {
		t.Errorf("defaults = temp %d, maxTokens %d", bot.Temperature, bot.MaxTokens)
	}
}

func TestCreateBot_TemperatureRange(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")

	for _, temp := range []int{-1, 201, 500} {
		_, err := CreateBot(db, BotCreate{Name: "h", DisplayName: "H", Temperature: temp, CreatedByID: user.ID})
		if err == nil {
			t.Errorf("temperature %d accepted", temp)
		}
	}

	bot, err := CreateBot(db, BotCreate{Name: "hot", DisplayName: "Hot", Temperature: 200, CreatedByID: user.ID})
	if err != nil {
		t.Fatalf("CreateBot(200): %v", err)
	}
	if got := bot.LogicalTemperature(); got != 2.0 {
		t.Errorf("LogicalTemperature = %v, want 2.0", got)
	}
}

func TestListActiveBots_OrderedByID(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	seedBot(t, db, "zeta", user.ID)
	seedBot(t, db, "alpha", user.ID)
	inactive := seedBot(t, db, "gone", user.ID)
	if err := DeactivateBot(db, inactive.ID, user.ID); err != nil {
		t.Fatalf("DeactivateBot: %v", err)
	}

	bots, err := ListActiveBots(db)
	if err != nil {
		t.Fatalf("ListActiveBots: %v", err)
	}
	if len(bots) != 2 {
		t.Fatalf("len = %d, want 2", len(bots))
	}
	if bots[0].Name != "zeta" || bots[1].Name != "alpha" {
		t.Errorf("order = %s, %s; want insertion (ID) order", bots[0].Name, bots[1].Name)
	}
	if bots[0].ID > bots[1].ID {
		t.Error("not ordered by ID ascending")
	}
}

func TestGetBotByName_ActiveOnly(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	bot := seedBot(t, db, "helper", user.ID)

	got, err := GetBotByName(db, "helper")
	if err != nil {
		t.Fatalf("GetBotByName: %v", err)
	}
	if got.ID != bot.ID || got.APIKey != "sk-test" {
		t.Errorf("got = %+v", got)
	}

	if err := DeactivateBot(db, bot.ID, user.ID); err != nil {
		t.Fatalf("DeactivateBot: %v", err)
	}
	if _, err := GetBotByName(db, "helper"); err == nil {
		t.Error("inactive bot still retrievable by name")
	}
}

func TestUpdateBot_CreatorOnly(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	mallory := seedUser(t, db, "mallory")
	bot := seedBot(t, db, "helper", alice.ID)

	name := "Renamed"
	if _, err := UpdateBot(db, bot.ID, mallory.ID, BotUpdate{DisplayName: &name}); err == nil {
		t.Error("non-creator update accepted")
	}

	got, err := UpdateBot(db, bot.ID, alice.ID, BotUpdate{DisplayName: &name})
	if err != nil {
		t.Fatalf("UpdateBot: %v", err)
	}
	if got.DisplayName != "Renamed" {
		t.Errorf("DisplayName = %q", got.DisplayName)
	}

	bad := 999
	_, err = UpdateBot(db, bot.ID, alice.ID, BotUpdate{Temperature: &bad})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("temperature update error = %v", err)
	}
}

func TestDeactivateBot_CreatorOnly(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	mallory := seedUser(t, db, "mallory")
	bot := seedBot(t, db, "helper", alice.ID)

	if err := DeactivateBot(db, bot.ID, mallory.ID); err == nil {
		t.Error("non-creator delete accepted")
	}
	if err := DeactivateBot(db, bot.ID, alice.ID); err != nil {
		t.Fatalf("DeactivateBot: %v", err)
	}
}
