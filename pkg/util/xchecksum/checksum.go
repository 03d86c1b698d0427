package xchecksum

import (
	"crypto/md5" //nolint:gosec // 校验值格式要求 MD5，不用于安全场景
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Algorithm 是摘要算法。
type Algorithm string

// 支持的算法。
const (
	MD5    Algorithm = "md5"
	XXHash Algorithm = "xxhash"
)

// ParseAlgorithm 解析算法名称。
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(name); a {
	case MD5, XXHash:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// MD5Hex 返回文件内容的 MD5，小写十六进制，共 32 个字符。
func MD5Hex(path string) (string, error) {
	sum, err := sumFile(path, md5.New()) //nolint:gosec // 见 import 注释
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// XXHash64 返回文件内容的 xxHash64。
func XXHash64(path string) (uint64, error) {
	d := xxhash.New()
	if _, err := sumFile(path, d); err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}

// Sum 按 alg 计算文件摘要并以十六进制返回。xxHash 固定 16 位，左侧补零。
func Sum(path string, alg Algorithm) (string, error) {
	switch alg {
	case MD5:
		return MD5Hex(path)
	case XXHash:
		v, err := XXHash64(path)
		if err != nil {
			return "", err
		}
		return formatUint64(v), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// SumBytes 按 alg 计算内存数据的摘要，格式与 Sum 相同。
func SumBytes(data []byte, alg Algorithm) (string, error) {
	switch alg {
	case MD5:
		sum := md5.Sum(data) //nolint:gosec // 见 import 注释
		return hex.EncodeToString(sum[:]), nil
	case XXHash:
		return formatUint64(xxhash.Sum64(data)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

func formatUint64(v uint64) string {
	s := strconv.FormatUint(v, 16)
	if len(s) < 16 {
		s = "0000000000000000"[len(s):] + s
	}
	return s
}

func sumFile(path string, h hash.Hash) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xchecksum: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("xchecksum: read %s: %w", path, err)
	}
	return h.Sum(nil), nil
}
