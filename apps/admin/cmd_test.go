package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
	inmemdb "github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database/inmem"
	testutil "github.com/2023UCA1802/Infosys-Study-AI-Recommender/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	usrRepo = inmemdb.NewUserRepository(inmemdb.Open())

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	return &commandLine{
		conf:     core.NewTestConfig(),
		usrSvc:   user.NewService(usrRepo, nil, nil),
		validate: validate,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantFail   bool // any error
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func checkErr(t *testing.T, tt cliTest, err error) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" || tt.wantFail {
			t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
		}
	case tt.wantFail:
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var calls int
	migrateFunc = func(ctx context.Context, db *mongo.Database, conf *core.Config) error {
		calls++
		if calls > 1 {
			return errors.New("index conflict")
		}
		return nil
	}

	tests := []cliTest{
		{name: "first run", args: []string{"migrate"}},
		{name: "failure", args: []string{"migrate"}, wantErrStr: "index conflict"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	existing := testutil.CreateUser(t, usrRepo, "bob", "bob@x.com", "b0bpassword", "")

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no username", args: []string{"adduser", "-email", "root@x.com"}, extra: extra{pwd: "r00tpassword"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "root@x.com", "-username", "root"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"adduser", "-lol"}, wantErr: errHelp},
		{
			name:     "weak password",
			args:     []string{"adduser", "-email", "root@x.com", "-username", "root"},
			extra:    extra{pwd: "abc"},
			wantFail: true,
		},
		{name: "create admin", args: []string{"adduser", "-email", "Root@x.com", "-username", "root", "-admin"}, extra: extra{pwd: "r00tpassword"}},
		{name: "promote existing", args: []string{"adduser", "-email", "bob@x.com", "-username", "bobby", "-admin"}, extra: extra{pwd: "n3wpassword"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	root, err := usrRepo.GetUserByEmail(ctx, "root@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if !root.IsAdmin() || root.CheckPassword("r00tpassword") != nil {
		t.Errorf("admin not created properly: %+v", root)
	}

	bob, err := usrRepo.GetUserByEmail(ctx, existing.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail() failed, %v", err)
	}
	if !bob.IsAdmin() || bob.Username != "bobby" || bob.ID != existing.ID {
		t.Errorf("existing user not updated properly: %+v", bob)
	}
	if bytes.Equal(bob.PasswordHash, existing.PasswordHash) {
		t.Error("failed to update new password")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "alice", "a@x.com", "secret123", "")

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@x.com"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@x.com"}, extra: extra{pwd: "lolpassword"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", " A@x.com"}, extra: extra{pwd: "lmaopassword"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			checkErr(t, tt, err)
			if err != nil {
				return
			}
			refreshedUsr, err := usrRepo.GetUserByEmail(context.Background(), usr.Email)
			if err != nil {
				t.Fatalf("GetUserByEmail() failed, %v", err)
			}
			if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
				t.Error("failed to update new password")
			}
		})
	}
}
