package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, key string
	body        []byte
	err         error
	ctxErr      error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return nil, f.err
	}
	f.bucket, f.key = *in.Bucket, *in.Key
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	client := &fakeS3{}
	w, err := NewS3WriterFactoryWithClient(context.Background(), client).NewWriter("lake", "events/a.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	assert.Nil(t, client.body)

	require.NoError(t, w.Close())
	assert.Equal(t, "lake", client.bucket)
	assert.Equal(t, "events/a.parquet", client.key)
	assert.Equal(t, "PAR1data", string(client.body))
}

func TestS3WriterSurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeS3{}
	w, err := NewS3WriterFactoryWithClient(ctx, client).NewWriter("lake", "k")
	require.NoError(t, err)
	cancel()

	require.NoError(t, w.Close())
	assert.NoError(t, client.ctxErr)
}

func TestS3WriterErrors(t *testing.T) {
	factory := NewS3WriterFactoryWithClient(context.Background(), &fakeS3{err: errors.New("access denied")})

	_, err := factory.NewWriter("", "k")
	assert.Error(t, err)

	w, err := factory.NewWriter("lake", "k")
	require.NoError(t, err)
	assert.ErrorContains(t, w.Close(), "access denied")
}
