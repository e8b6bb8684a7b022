package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"

	"costwatch/internal/logging"
)

// ResolveAccountID returns the account ID of the session's caller identity.
// The budget lookup is scoped by account, so this runs once up front and the
// result is passed around as a plain value.
func ResolveAccountID(sess *session.Session) (string, error) {
	return ResolveAccountIDWithClient(sts.New(sess))
}

// ResolveAccountIDWithClient resolves the account ID using an existing STS client
func ResolveAccountIDWithClient(svc stsiface.STSAPI) (string, error) {
	identity, err := svc.GetCallerIdentity(&sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}

	accountID := aws.StringValue(identity.Account)
	logging.Debug("Resolved account identity", map[string]interface{}{
		"account_id": accountID,
	})
	return accountID, nil
}
