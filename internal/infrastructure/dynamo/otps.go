package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fitness-hub/core/internal/domain"
)

// OTPRepo stores one verification item per email.
// PK: email. Replace overwrites the item, which supersedes any earlier code in
// a single write; MarkVerified is a conditional write keyed on the record id.
type OTPRepo struct {
	client    API
	tableName string
}

func NewOTPRepo(client API, tableName string) *OTPRepo {
	return &OTPRepo{client: client, tableName: tableName}
}

// Replace writes rec as the only record for its email.
func (r *OTPRepo) Replace(ctx context.Context, rec *domain.OTPRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal otp record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put otp record: %w", err)
	}
	return nil
}

// Get returns the current record for email. Reads are strongly consistent so a
// verify that follows a send always sees the newest code.
func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get otp record: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	var rec domain.OTPRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal otp record: %w", err)
	}
	return &rec, nil
}

// MarkVerified flips the record with the given id to verified. The write only
// succeeds while that exact record is still current, unverified and unexpired;
// otherwise domain.ErrConditionFailed is returned.
func (r *OTPRepo) MarkVerified(ctx context.Context, email, id string, now time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldVerified:   true,
		fieldVerifiedAt: now.UTC(),
	})
	if err != nil {
		return err
	}
	ue.withCondition(
		map[string]string{
			"#cid":  fieldID,
			"#cver": fieldVerified,
			"#cexp": fieldExpiresAt,
		},
		map[string]types.AttributeValue{
			":cid":  &types.AttributeValueMemberS{Value: id},
			":cf":   &types.AttributeValueMemberBOOL{Value: false},
			":cnow": unixValue(now.Unix()),
		},
	)
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#cid = :cid AND #cver = :cf AND #cexp >= :cnow"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return conditional(err, "mark otp verified")
}

// Invalidate removes the record for email if it is still the one with id.
// A newer record issued in the meantime is left untouched.
func (r *OTPRepo) Invalidate(ctx context.Context, email, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		ConditionExpression:       aws.String("#cid = :cid"),
		ExpressionAttributeNames:  map[string]string{"#cid": fieldID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":cid": &types.AttributeValueMemberS{Value: id}},
	})
	return conditional(err, "invalidate otp record")
}

// conditional maps ConditionalCheckFailedException to domain.ErrConditionFailed.
func conditional(err error, op string) error {
	if err == nil {
		return nil
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%s: %w", op, domain.ErrConditionFailed)
	}
	return fmt.Errorf("%s: %w", op, err)
}
