package upload

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/diillson/genomics-finops-go/internal/domain/repository"
)

// ObjectPutter is the part of the S3 client used to store reports.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// IdentityGetter is the part of the STS client used to name the uploader.
type IdentityGetter interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// S3Uploader envia relatórios exportados para um bucket S3.
type S3Uploader struct {
	s3Client  ObjectPutter
	stsClient IdentityGetter
	bucket    string
	prefix    string
}

// NewS3Uploader carrega a configuração AWS do perfil informado (ou a cadeia
// padrão quando vazio) e cria o uploader.
func NewS3Uploader(ctx context.Context, bucket, prefix, profile, region string) (repository.ReportUploader, error) {
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	return NewS3UploaderWithClients(s3.NewFromConfig(cfg), sts.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3UploaderWithClients cria o uploader com clientes já construídos.
func NewS3UploaderWithClients(s3Client ObjectPutter, stsClient IdentityGetter, bucket, prefix string) *S3Uploader {
	return &S3Uploader{
		s3Client:  s3Client,
		stsClient: stsClient,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
	}
}

// Identity retorna o ARN que fará o upload.
func (u *S3Uploader) Identity(ctx context.Context) (string, error) {
	result, err := u.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting caller identity: %w", err)
	}
	return aws.ToString(result.Arn), nil
}

// Upload envia o arquivo para <prefix>/<nome do arquivo> e retorna a URI s3://.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening report: %w", err)
	}
	defer file.Close()

	key := path.Join(u.prefix, filepath.Base(localPath))
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(localPath)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("error uploading %s to bucket %s: %w", key, u.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
