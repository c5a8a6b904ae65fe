package digest

import (
	"bytes"
	"crypto/md5" // #nosec G401
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
)

func expectedHex(t *testing.T, a Algorithm, content []byte) string {
	t.Helper()
	var sum []byte
	switch a {
	case MD5:
		h := md5.Sum(content)
		sum = h[:]
	case SHA256:
		h := sha256.Sum256(content)
		sum = h[:]
	case SHA512:
		h := sha512.Sum512(content)
		sum = h[:]
	case BLAKE2s:
		h := blake2s.Sum256(content)
		sum = h[:]
	case BLAKE2b:
		h := blake2b.Sum512(content)
		sum = h[:]
	case BLAKE3:
		h := blake3.Sum256(content)
		sum = h[:]
	default:
		t.Fatalf("no reference for %v", a)
	}
	return hex.EncodeToString(sum)
}

func TestFile_TableDriven(t *testing.T) {
	dir := t.TempDir()

	makeFile := func(name string, content []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, content, 0o600); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
		return p
	}

	contentSmall := []byte("hello world")
	contentLarge := bytes.Repeat([]byte("A"), 2<<20) // 2 MiB

	tests := []struct {
		name      string
		algorithm Algorithm
		content   []byte
	}{
		{"md5", MD5, contentSmall},
		{"sha256 small", SHA256, contentSmall},
		{"sha256 large", SHA256, contentLarge},
		{"sha512", SHA512, contentSmall},
		{"blake2s", BLAKE2s, contentSmall},
		{"blake2b", BLAKE2b, contentSmall},
		{"blake3 small", BLAKE3, contentSmall},
		{"blake3 large", BLAKE3, contentLarge},
		{"sha256 empty", SHA256, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := makeFile(strings.ReplaceAll(tt.name, " ", "_")+".bin", tt.content)

			var progressed int64
			got, err := File(path, tt.algorithm, func(n int64) {
				progressed += n
			})
			require.NoError(t, err)

			assert.Equal(t, expectedHex(t, tt.algorithm, tt.content), got)
			assert.Equal(t, strings.ToLower(got), got)
			assert.Len(t, got, tt.algorithm.Size()*2)
			assert.Equal(t, int64(len(tt.content)), progressed)
		})
	}
}

func TestBytes_KnownEmptyDigests(t *testing.T) {
	want := map[Algorithm]string{
		MD5:     "d41d8cd98f00b204e9800998ecf8427e",
		SHA256:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		SHA512:  "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		BLAKE2s: "69217a3079908094e11121d042354a7c1f55b6482ca1a51e1b250dfd1ed0eef9",
		BLAKE2b: "786a02f742015903c6c6fd852552d272912f4740e15847618a86e217f71f5419d25e1031afee585313896444934eb04b903a685b1448b755d56f701afe9be2ce",
		BLAKE3:  "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
	}

	for _, a := range Algorithms() {
		got, err := Bytes(nil, a)
		require.NoError(t, err)
		assert.Equal(t, want[a], got, "algorithm %v", a)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	content := []byte("determinism check")
	for _, a := range Algorithms() {
		first, err := Compute(bytes.NewReader(content), a, nil)
		require.NoError(t, err)
		second, err := Compute(bytes.NewReader(content), a, nil)
		require.NoError(t, err)
		assert.Equal(t, first, second, "algorithm %v", a)
	}
}

func TestFile_MissingIsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.bin")

	_, err := File(path, SHA256, nil)
	require.Error(t, err)

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, path, rerr.Path)
	assert.True(t, IsNotFound(err))
}

func TestFile_DirectoryIsReadErrorNotNotFound(t *testing.T) {
	_, err := File(t.TempDir(), SHA256, nil)
	require.Error(t, err)

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, IsNotFound(err))
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"md5", MD5, false},
		{"SHA256", SHA256, false},
		{"sha-512", SHA512, false},
		{" blake2s ", BLAKE2s, false},
		{"blake2b-512", BLAKE2b, false},
		{"Blake3", BLAKE3, false},
		{"sha1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlgorithm_FlagValue(t *testing.T) {
	a := Default
	require.NoError(t, a.Set("blake3"))
	assert.Equal(t, BLAKE3, a)
	assert.Equal(t, "blake3", a.String())
	assert.Equal(t, "algorithm", a.Type())

	require.Error(t, a.Set("crc32"))
	assert.Equal(t, BLAKE3, a, "failed Set must not change the value")
}
