// internal/platform/di/passcode_provider_sm.go
package di

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errPasscodeProviderNotConfigured = errors.New("di: passcodeProviderSM not configured")

// passcodeProviderSM resolves the till passcode from Secret Manager so it
// is never stored in the client-readable database.
type passcodeProviderSM struct {
	sm        *secretmanager.Client
	projectID string
	secretID  string
	version   string
}

func (p *passcodeProviderSM) Passcode(ctx context.Context) (string, error) {
	if p == nil || p.sm == nil {
		return "", errPasscodeProviderNotConfigured
	}

	prj := strings.TrimSpace(p.projectID)
	sid := strings.TrimSpace(p.secretID)
	if prj == "" || sid == "" {
		return "", errPasscodeProviderNotConfigured
	}

	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	name := "projects/" + prj + "/secrets/" + sid + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("di: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("di: empty secret payload (" + name + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
