package ir

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRoot_MarshalJSON(t *testing.T) {
	r := &Root{}
	user := r.EnsureNamespace("user")
	user.Add(MessageEntry(&Message{
		Name: "User",
		Doc:  "A registered user.",
		Fields: []Field{
			{Name: "name", Number: 1, Type: "string", Optional: true},
			{Name: "friends", Number: 2, Type: "User", Repeated: true, Optional: true},
		},
	}))
	user.Add(EnumEntry(&Enum{
		Name:   "Role",
		Values: []EnumValue{{Name: "NONE", Number: 0}, {Name: "ROOT", Number: 1, Doc: "Superuser."}},
	}))
	user.Add(ServiceEntry(&Service{
		Name:    "Users",
		Methods: []Method{{Name: "Watch", RequestType: "User", ResponseType: ".user.User", ResponseStream: true}},
	}))

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)

	wantParts := []string{
		`{"nested":[{"kind":"namespace","name":"user","nested":[`,
		`{"kind":"message","name":"User","doc":"A registered user.","fields":[`,
		`{"name":"name","number":1,"type":"string","optional":true}`,
		`{"name":"friends","number":2,"type":"User","repeated":true,"optional":true}`,
		`{"kind":"enum","name":"Role","values":[{"name":"NONE","number":0},{"name":"ROOT","number":1,"doc":"Superuser."}]}`,
		`{"kind":"service","name":"Users","methods":[{"name":"Watch","requestType":"User","responseType":".user.User","responseStream":true}]}`,
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("JSON missing %s\ngot: %s", part, got)
		}
	}
}

func TestEntry_MarshalJSON_Empty(t *testing.T) {
	data, err := json.Marshal(&Root{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(data); got != `{"nested":[]}` {
		t.Errorf("Marshal(empty root) = %s", got)
	}

	data, err = json.Marshal(MessageEntry(&Message{Name: "Empty"}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(data); got != `{"kind":"message","name":"Empty","fields":[]}` {
		t.Errorf("Marshal(empty message) = %s", got)
	}
}

func TestEntry_MarshalJSON_Malformed(t *testing.T) {
	if _, err := json.Marshal(Entry{Kind: KindService}); err == nil {
		t.Error("Marshal(entry without payload) error = nil, want error")
	}
	if _, err := json.Marshal(Entry{Kind: NodeKind(7)}); err == nil {
		t.Error("Marshal(unknown kind) error = nil, want error")
	}
}
